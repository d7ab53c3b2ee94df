package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Stage is one step of a bridge execution.
type Stage string

const (
	StageApprove Stage = "approve"
	StageDeposit Stage = "deposit"
	StageFill    Stage = "fill"
)

// Status is the state of a stage.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "txSuccess"
	StatusError   Status = "error"
)

// Progress is emitted as an execution moves through its stages.
type Progress struct {
	Stage  Stage
	Status Status
	TxHash common.Hash
	Err    error
}

// ProgressFunc receives execution progress events. May be nil.
type ProgressFunc func(Progress)

// Receipt summarizes a completed bridge execution.
type Receipt struct {
	ApproveTx   common.Hash // zero when the allowance was already sufficient
	DepositTx   common.Hash
	DepositedAt time.Time
	Filled      bool
	FilledAt    time.Time
}
