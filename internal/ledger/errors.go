package ledger

import "fmt"

// ReadError 账本读取失败, 携带底层原因
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("ledger read %s failed: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// NotFoundError 活动ID不存在
type NotFoundError struct {
	Id int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("campaign %d not found", e.Id)
}

// StaleDataError 档位列表与资助掩码长度不一致, 说明两次读取之间档位发生了变化
type StaleDataError struct {
	TierCount  int
	MaskLength int
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("stale tier data: %d tiers but funded mask has %d entries", e.TierCount, e.MaskLength)
}
