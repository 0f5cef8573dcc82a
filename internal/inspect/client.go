package inspect

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client is the desktop-process side of the inspect coordination socket.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the coordination server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// GetDebugPort requests a fresh inspector port from the launcher.
func (c *Client) GetDebugPort() (int, error) {
	var resp GetDebugPortResponse
	if err := c.client.Call("Quill.GetDebugPort", GetDebugPortRequest{}, &resp); err != nil {
		return 0, err
	}
	return resp.DebugPort, nil
}
