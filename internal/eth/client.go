package eth

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
)

type Client struct {
	rpc *ethclient.Client
}

func NewClient() (*Client, error) {
	godotenv.Load()
	url := os.Getenv("ALCHEMY_URL")

	if url == "" {
		return nil, fmt.Errorf("ALCHEMY_URL not set in .env")
	}

	return Dial(url)
}

func Dial(url string) (*Client, error) {
	rpc, err := ethclient.Dial(url)
	if err != nil {
		return nil, err
	}

	return &Client{rpc: rpc}, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.rpc.CallContract(ctx, msg, blockNumber)
}

func (c *Client) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return c.rpc.SuggestGasPrice(ctx)
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	return c.rpc.BlockNumber(ctx)
}
