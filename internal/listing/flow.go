package listing

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/event"
	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/fractionft/fraction-marketplace/internal/registry"
	"github.com/fractionft/fraction-marketplace/internal/token"
	"github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
)

// Step identifies one stage of the listing flow. Steps always run in
// declaration order; a failure halts the flow at the failing step.
type Step string

const (
	StepDeploy             Step = "deploy"
	StepApprove            Step = "approve"
	StepTransfer           Step = "transfer"
	StepSetRegistry        Step = "setRegistry"
	StepRegisterInRegistry Step = "registerInRegistry"
)

// Steps in execution order.
var Steps = []Step{StepDeploy, StepApprove, StepTransfer, StepSetRegistry, StepRegisterInRegistry}

// State is the flow's current position. It is the step in progress, or Idle
// before Run and Done after a completed run. A failed flow stays parked on
// its failing step.
type State string

const (
	StateIdle State = "idle"
	StateDone State = "done"
)

type Status string

const (
	StatusStart   Status = "start"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Progress is emitted twice per step, start then success or error. Manager is
// set from the deploy step onwards so observers can always locate the
// partially wired contract.
type Progress struct {
	FlowId  string `json:"flowId"`
	Step    Step   `json:"step"`
	Status  Status `json:"status"`
	TxHash  string `json:"txHash,omitempty"`
	Manager string `json:"manager,omitempty"`
	Message string `json:"message,omitempty"`
}

type Observer func(Progress)

type Params struct {
	NftContract           common.Address
	TokenId               *big.Int
	PriceWei              *big.Int
	MaxSellablePercentage uint64
}

type Result struct {
	FlowId      string
	Manager     common.Address
	MetadataURI string
	RegisterTx  common.Hash
}

// FlowError reports which step halted the flow. When the manager was already
// deployed its address is carried so the operator can resume manually.
type FlowError struct {
	Step    Step
	Manager common.Address
	Err     error
}

func (e FlowError) Error() string {
	if e.Manager != (common.Address{}) {
		return fmt.Sprintf("listing step %s failed (manager %s): %s", e.Step, e.Manager.Hex(), e.Err.Error())
	}

	return fmt.Sprintf("listing step %s failed: %s", e.Step, e.Err.Error())
}

func (e FlowError) Unwrap() error {
	return e.Err
}

type Service interface {
	NewFlow(observer Observer) (*Flow, error)
	List(ctx context.Context, params Params, observer Observer) (*Result, error)
}

type service struct {
	managers manager.Service
	registry registry.Service
	tokens   token.Service
}

func NewService(managers manager.Service, registrySvc registry.Service, tokens token.Service) Service {
	return service{managers, registrySvc, tokens}
}

// Flow runs the five-step listing state machine:
//
//	idle -> deploy -> approve -> transfer -> setRegistry -> registerInRegistry -> done
//
// Each step waits for its receipt before the next begins. State is
// inspectable from other goroutines while Run executes. There is no
// resumability; a failed flow is reported and left where it stopped.
type Flow struct {
	service  service
	id       string
	observer Observer

	mu    sync.Mutex
	state State
}

func (s service) NewFlow(observer Observer) (*Flow, error) {
	flowId, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	return &Flow{service: s, id: flowId.String(), observer: observer, state: StateIdle}, nil
}

// List is the one-shot form: build a flow and run it to completion.
func (s service) List(ctx context.Context, params Params, observer Observer) (*Result, error) {
	flow, err := s.NewFlow(observer)
	if err != nil {
		return nil, err
	}

	return flow.Run(ctx, params)
}

func (f *Flow) Id() string {
	return f.id
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

func (f *Flow) setState(state State) {
	f.mu.Lock()
	f.state = state
	f.mu.Unlock()
}

func (f *Flow) Run(ctx context.Context, params Params) (*Result, error) {
	zap.L().With(
		zap.String("flowId", f.id),
		zap.String("nftContract", params.NftContract.Hex()),
		zap.String("tokenId", params.TokenId.String()),
	).Info("Listing: flow started")

	managerAddr, err := f.deploy(ctx, params)
	if err != nil {
		return nil, err
	}

	if err := f.approve(ctx, params, managerAddr); err != nil {
		return nil, err
	}

	if err := f.transfer(ctx, managerAddr); err != nil {
		return nil, err
	}

	if err := f.setRegistry(ctx, managerAddr); err != nil {
		return nil, err
	}

	metadataURI := f.metadataURI(ctx, params)

	registerTx, err := f.register(ctx, managerAddr, metadataURI)
	if err != nil {
		return nil, err
	}

	f.setState(StateDone)

	zap.L().With(
		zap.String("flowId", f.id),
		zap.String("manager", managerAddr.Hex()),
	).Info("Listing: flow complete")

	return &Result{
		FlowId:      f.id,
		Manager:     managerAddr,
		MetadataURI: metadataURI,
		RegisterTx:  registerTx,
	}, nil
}

// metadataURI prefers the token's own tokenURI; when that read fails the
// registry still gets a synthetic URI so the entry is never blank.
func (f *Flow) metadataURI(ctx context.Context, params Params) string {
	uri, err := f.service.tokens.TokenURI(ctx, params.NftContract, params.TokenId)
	if err != nil || uri == "" {
		zap.L().With(
			zap.Error(err),
			zap.String("nftContract", params.NftContract.Hex()),
		).Warn("Listing: tokenURI unavailable, using fallback")

		return fmt.Sprintf("nft://%s/%s", params.NftContract.Hex(), params.TokenId.String())
	}

	return uri
}

func (f *Flow) emit(p Progress) {
	p.FlowId = f.id
	if p.Status == StatusStart {
		f.setState(State(p.Step))
	}
	if f.observer != nil {
		f.observer(p)
	}
	event.EmitEvent(event.ListingProgressEvent, p)
}

func (f *Flow) deploy(ctx context.Context, params Params) (common.Address, error) {
	f.emit(Progress{Step: StepDeploy, Status: StatusStart})

	managerAddr, txHash, err := f.service.managers.Deploy(ctx, manager.DeployParams{
		NftContract:           params.NftContract,
		TokenId:               params.TokenId,
		PriceWei:              params.PriceWei,
		MaxSellablePercentage: params.MaxSellablePercentage,
	})
	if err != nil {
		f.emit(Progress{Step: StepDeploy, Status: StatusError, Message: err.Error()})
		return common.Address{}, FlowError{Step: StepDeploy, Err: err}
	}

	f.emit(Progress{Step: StepDeploy, Status: StatusSuccess, TxHash: txHash.Hex(), Manager: managerAddr.Hex()})

	return managerAddr, nil
}

func (f *Flow) approve(ctx context.Context, params Params, managerAddr common.Address) error {
	f.emit(Progress{Step: StepApprove, Status: StatusStart, Manager: managerAddr.Hex()})

	txHash, err := f.service.tokens.Approve(ctx, params.NftContract, managerAddr, params.TokenId)
	if err != nil {
		f.emit(Progress{Step: StepApprove, Status: StatusError, Manager: managerAddr.Hex(), Message: err.Error()})
		return FlowError{Step: StepApprove, Manager: managerAddr, Err: err}
	}

	f.emit(Progress{Step: StepApprove, Status: StatusSuccess, TxHash: txHash.Hex(), Manager: managerAddr.Hex()})

	return nil
}

func (f *Flow) transfer(ctx context.Context, managerAddr common.Address) error {
	f.emit(Progress{Step: StepTransfer, Status: StatusStart, Manager: managerAddr.Hex()})

	txHash, err := f.service.managers.TransferNFTToContract(ctx, managerAddr)
	if err != nil {
		f.emit(Progress{Step: StepTransfer, Status: StatusError, Manager: managerAddr.Hex(), Message: err.Error()})
		return FlowError{Step: StepTransfer, Manager: managerAddr, Err: err}
	}

	f.emit(Progress{Step: StepTransfer, Status: StatusSuccess, TxHash: txHash.Hex(), Manager: managerAddr.Hex()})

	return nil
}

func (f *Flow) setRegistry(ctx context.Context, managerAddr common.Address) error {
	f.emit(Progress{Step: StepSetRegistry, Status: StatusStart, Manager: managerAddr.Hex()})

	txHash, err := f.service.managers.SetRegistry(ctx, managerAddr, f.service.registry.Address())
	if err != nil {
		f.emit(Progress{Step: StepSetRegistry, Status: StatusError, Manager: managerAddr.Hex(), Message: err.Error()})
		return FlowError{Step: StepSetRegistry, Manager: managerAddr, Err: err}
	}

	f.emit(Progress{Step: StepSetRegistry, Status: StatusSuccess, TxHash: txHash.Hex(), Manager: managerAddr.Hex()})

	return nil
}

func (f *Flow) register(ctx context.Context, managerAddr common.Address, metadataURI string) (common.Hash, error) {
	f.emit(Progress{Step: StepRegisterInRegistry, Status: StatusStart, Manager: managerAddr.Hex()})

	txHash, err := f.service.registry.Register(ctx, managerAddr, metadataURI)
	if err != nil {
		f.emit(Progress{Step: StepRegisterInRegistry, Status: StatusError, Manager: managerAddr.Hex(), Message: err.Error()})
		return common.Hash{}, FlowError{Step: StepRegisterInRegistry, Manager: managerAddr, Err: err}
	}

	f.emit(Progress{Step: StepRegisterInRegistry, Status: StatusSuccess, TxHash: txHash.Hex(), Manager: managerAddr.Hex()})

	return txHash, nil
}
