package bgc

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultConnection is the name a Client uses until Using selects another.
const DefaultConnection = "default"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Connection holds the host and account credentials for one BGC account.
type Connection struct {
	Name     string `validate:"required"`
	Host     string `validate:"required,url"`
	User     string `validate:"required"`
	Password string `validate:"required"`
	Account  string `validate:"required"`
}

// Login returns the credentials sent in the request login block.
func (c Connection) Login() Login {
	return Login{User: c.User, Password: c.Password, Account: c.Account}
}

// Login is the credential block of every request.
type Login struct {
	User     string
	Password string
	Account  string
}

// Connections is a registry of named connections. It is safe for concurrent
// use.
type Connections struct {
	mu    sync.RWMutex
	conns map[string]Connection
}

// NewConnections validates and registers conns.
func NewConnections(conns ...Connection) (*Connections, error) {
	c := &Connections{conns: make(map[string]Connection, len(conns))}
	for _, conn := range conns {
		if err := c.Add(conn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add validates conn and registers it under its name, replacing any
// connection with the same name.
func (c *Connections) Add(conn Connection) error {
	if err := validate.Struct(conn); err != nil {
		return fmt.Errorf("invalid connection %q: %w", conn.Name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[conn.Name] = conn
	return nil
}

// Get returns the connection registered under name.
func (c *Connections) Get(name string) (Connection, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conn, ok := c.conns[name]
	if !ok {
		return Connection{}, fmt.Errorf("%w: %q", ErrUnknownConnection, name)
	}
	return conn, nil
}

// Names returns the registered names in ascending order.
func (c *Connections) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.conns))
	for name := range c.conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
