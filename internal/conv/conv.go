package conv

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

// weiPerEth 换算比例 1 ETH = 10^18 wei, 全局唯一定义
var weiPerEth = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// EthToWei 将ETH金额转换为wei(合约整数单位)
// 拒绝负数和非有限输入
func EthToWei(eth float64) (*big.Int, error) {
	if math.IsNaN(eth) || math.IsInf(eth, 0) {
		return nil, fmt.Errorf("eth amount is not finite: %v", eth)
	}
	if eth < 0 {
		return nil, fmt.Errorf("eth amount is negative: %v", eth)
	}

	wei, _ := new(big.Float).Mul(big.NewFloat(eth), weiPerEth).Int(nil)
	return wei, nil
}

// WeiToEth 将wei转换为ETH显示值
// 注意: 结果为float64展示精度, 与EthToWei不保证按位往返, 仅保证显示容差内一致
func WeiToEth(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), weiPerEth).Float64()
	return eth
}

// timestampLayouts 支持的日期格式, 首位对应前端datetime-local输入
var timestampLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ToUnixTimestamp 将本地日期时间字符串解析为epoch秒
func ToUnixTimestamp(datetime string) (int64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, datetime, time.Local); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, &InvalidDateError{Input: datetime}
}

// TimeLeft 将绝对截止时间渲染为倒计时字符串
func TimeLeft(deadline int64) string {
	return TimeLeftAt(deadline, time.Now().Unix())
}

// TimeLeftAt 在给定当前时间下计算倒计时字符串
// 只输出最大的非零单位(天/时/分/秒), 不输出组合形式, 与前端展示保持一致
func TimeLeftAt(deadline, now int64) string {
	timeLeft := deadline - now
	if timeLeft <= 0 {
		return "Time is up"
	}

	days := timeLeft / (60 * 60 * 24)
	hours := (timeLeft % (60 * 60 * 24)) / (60 * 60)
	minutes := (timeLeft % (60 * 60)) / 60
	seconds := timeLeft % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d day%s left", days, plural(days))
	case hours > 0:
		return fmt.Sprintf("%d hour%s left", hours, plural(hours))
	case minutes > 0:
		return fmt.Sprintf("%d minute%s left", minutes, plural(minutes))
	default:
		return fmt.Sprintf("%d second%s left", seconds, plural(seconds))
	}
}

func plural(n int64) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// BigIntString 将任意精度非负整数转换为十进制字符串, 零值映射为"0"
func BigIntString(v *big.Int) string {
	if v == nil || v.Sign() == 0 {
		return "0"
	}
	return v.String()
}

// Percentage 计算筹款完成百分比
// target为0时返回DivisionByZeroError, 绝不静默产生NaN/Inf
func Percentage(collected, target float64) (float64, error) {
	if target == 0 {
		return 0, &DivisionByZeroError{Collected: collected}
	}
	return (collected / target) * 100, nil
}

// ClampPercentage 将百分比裁剪到[0, 100], 用于进度条展示
func ClampPercentage(p float64) float64 {
	return math.Min(p, 100)
}
