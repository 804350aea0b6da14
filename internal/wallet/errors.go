package wallet

import (
	"errors"
	"fmt"
)

// 本地守卫错误: 在提交前拒绝, 不产生任何账本调用
var (
	ErrCampaignClosed  = errors.New("campaign is closed")
	ErrDeadlinePassed  = errors.New("campaign deadline has passed")
	ErrMissingAccount  = errors.New("no active account")
	ErrIntentNotFound  = errors.New("transaction intent not found")
	ErrInvalidCampaign = errors.New("invalid campaign id")
)

// RejectedError 签名者拒绝交易
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("transaction rejected by signer: %s", e.Reason)
}

// RevertedError 账本拒绝交易前置条件(revert)
type RevertedError struct {
	Reason string
}

func (e *RevertedError) Error() string {
	return fmt.Sprintf("transaction reverted by ledger: %s", e.Reason)
}

// SubmitError 网络或RPC层提交失败
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("transaction submission failed: %v", e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
