package conv

import "fmt"

// DivisionByZeroError 目标金额为0时的百分比计算错误
type DivisionByZeroError struct {
	Collected float64
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("funding percentage undefined: target is zero (collected=%v)", e.Collected)
}

// InvalidDateError 无法解析的日期时间输入
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid datetime: %q", e.Input)
}
