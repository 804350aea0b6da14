package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// crowdfundingABI 众筹合约ABI定义
const crowdfundingABI = `[
	{
		"type": "function",
		"name": "getCampaigns",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [
			{
				"name": "",
				"type": "tuple[]",
				"components": [
					{"name": "owner", "type": "address"},
					{"name": "title", "type": "string"},
					{"name": "description", "type": "string"},
					{"name": "target", "type": "uint256"},
					{"name": "deadline", "type": "uint256"},
					{"name": "amountCollected", "type": "uint256"},
					{"name": "image", "type": "string"},
					{"name": "donators", "type": "uint256"},
					{"name": "state", "type": "uint8"},
					{"name": "tiers", "type": "uint256"}
				]
			}
		]
	},
	{
		"type": "function",
		"name": "getCampaign",
		"stateMutability": "view",
		"inputs": [{"name": "_id", "type": "uint256"}],
		"outputs": [
			{
				"name": "",
				"type": "tuple",
				"components": [
					{"name": "owner", "type": "address"},
					{"name": "title", "type": "string"},
					{"name": "description", "type": "string"},
					{"name": "target", "type": "uint256"},
					{"name": "deadline", "type": "uint256"},
					{"name": "amountCollected", "type": "uint256"},
					{"name": "image", "type": "string"},
					{"name": "donators", "type": "address[]"},
					{"name": "state", "type": "uint8"},
					{
						"name": "tiers",
						"type": "tuple[]",
						"components": [
							{"name": "name", "type": "string"},
							{"name": "amount", "type": "uint256"},
							{"name": "backers", "type": "uint256"}
						]
					}
				]
			}
		]
	},
	{
		"type": "function",
		"name": "getTiers",
		"stateMutability": "view",
		"inputs": [{"name": "_id", "type": "uint256"}],
		"outputs": [
			{
				"name": "",
				"type": "tuple[]",
				"components": [
					{"name": "name", "type": "string"},
					{"name": "amount", "type": "uint256"},
					{"name": "backers", "type": "uint256"}
				]
			}
		]
	},
	{
		"type": "function",
		"name": "getBackers",
		"stateMutability": "view",
		"inputs": [{"name": "_id", "type": "uint256"}],
		"outputs": [{"name": "", "type": "address[]"}]
	},
	{
		"type": "function",
		"name": "getFundedTiers",
		"stateMutability": "view",
		"inputs": [
			{"name": "_id", "type": "uint256"},
			{"name": "_backer", "type": "address"}
		],
		"outputs": [{"name": "", "type": "bool[]"}]
	},
	{
		"type": "function",
		"name": "getTotalContribution",
		"stateMutability": "view",
		"inputs": [
			{"name": "_id", "type": "uint256"},
			{"name": "_backer", "type": "address"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "getNumberOfBackers",
		"stateMutability": "view",
		"inputs": [{"name": "_id", "type": "uint256"}],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "getNumberOfCampaigns",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "createCampaign",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "_title", "type": "string"},
			{"name": "_description", "type": "string"},
			{"name": "_target", "type": "uint256"},
			{"name": "_deadline", "type": "uint256"},
			{"name": "_image", "type": "string"}
		],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "addTier",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "_id", "type": "uint256"},
			{"name": "_name", "type": "string"},
			{"name": "_amount", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "fund",
		"stateMutability": "payable",
		"inputs": [
			{"name": "_id", "type": "uint256"},
			{"name": "_tierIndex", "type": "uint256"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "refund",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "_id", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "withdraw",
		"stateMutability": "nonpayable",
		"inputs": [{"name": "_id", "type": "uint256"}],
		"outputs": []
	},
	{
		"type": "function",
		"name": "updateCampaign",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "_id", "type": "uint256"},
			{"name": "_title", "type": "string"},
			{"name": "_description", "type": "string"},
			{"name": "_target", "type": "uint256"},
			{"name": "_deadline", "type": "uint256"},
			{"name": "_image", "type": "string"}
		],
		"outputs": []
	}
]`

// LoadABI 加载合约ABI
// path为空时使用内置ABI; 指定文件时兼容完整编译输出和裸ABI数组两种格式
func LoadABI(path string) (abi.ABI, error) {
	if path == "" {
		return abi.JSON(strings.NewReader(crowdfundingABI))
	}

	abiData, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to load ABI from %s: %w", path, err)
	}

	// 首先尝试解析为完整编译输出
	var compiledOutput struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(abiData, &compiledOutput); err == nil && compiledOutput.ABI != nil {
		parsedABI, err := abi.JSON(bytes.NewReader(compiledOutput.ABI))
		if err != nil {
			return abi.ABI{}, fmt.Errorf("failed to parse ABI from compiled output: %w", err)
		}
		return parsedABI, nil
	}

	// 如果不是完整编译输出，尝试直接解析为ABI数组
	parsedABI, err := abi.JSON(bytes.NewReader(abiData))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsedABI, nil
}
