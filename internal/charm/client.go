// ABOUTME: Charm KV client wrapper using transactional Do API
// ABOUTME: Short-lived connections to avoid lock contention with other MCP servers

package charm

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	charmproto "github.com/charmbracelet/charm/proto"
)

const (
	// EntityPrefix is the key prefix for knowledge graph entities.
	EntityPrefix = "entity:"

	// RelationPrefix is the key prefix for knowledge graph relations.
	RelationPrefix = "relation:"

	// DBName is the KV database name for agileflow.
	DBName = "agileflow"
)

// Client holds configuration for KV operations. It does NOT hold a
// persistent connection: each operation opens the database, performs the
// operation, and closes it. Writes sync to the cloud before returning.
type Client struct {
	dbName string
}

// NewClient creates a new client against the agileflow KV database.
func NewClient() (*Client, error) {
	// Honor a configured charm host
	if host := os.Getenv("AGILE_FLOW_CHARM_HOST"); host != "" {
		if err := os.Setenv("CHARM_HOST", host); err != nil {
			return nil, err
		}
	}

	return &Client{dbName: DBName}, nil
}

// Get retrieves a value by key (read-only, no lock contention).
func (c *Client) Get(key []byte) ([]byte, error) {
	var val []byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		var err error
		val, err = k.Get(key)
		return err
	})
	return val, err
}

// Set stores a value with the given key.
func (c *Client) Set(key, value []byte) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := k.Set(key, value); err != nil {
			return err
		}
		return k.Sync()
	})
}

// Delete removes a key.
func (c *Client) Delete(key []byte) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := k.Delete(key); err != nil {
			return err
		}
		return k.Sync()
	})
}

// Keys returns all keys in the database.
func (c *Client) Keys() ([][]byte, error) {
	var keys [][]byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		var err error
		keys, err = k.Keys()
		return err
	})
	return keys, err
}

// DoReadOnly executes a function with read-only database access.
// Use this for batch read operations that need multiple Gets.
func (c *Client) DoReadOnly(fn func(k *kv.KV) error) error {
	return kv.DoReadOnly(c.dbName, fn)
}

// Do executes a function with write access to the database, syncing to
// the cloud afterwards. Use this for batch write operations.
func (c *Client) Do(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		return k.Sync()
	})
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", err
	}
	return cc.ID()
}

// User returns the current charm user information.
func (c *Client) User() (*charmproto.User, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return nil, err
	}
	return cc.Bio()
}

// SetJSON stores a JSON-serialized value.
func (c *Client) SetJSON(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return c.Set(key, data)
}

// GetJSON retrieves and unmarshals a JSON value.
func (c *Client) GetJSON(key []byte, dest any) error {
	data, err := c.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

var globalClient *Client

// GetClient returns the global client, initializing if needed.
func GetClient() (*Client, error) {
	if globalClient != nil {
		return globalClient, nil
	}
	var err error
	globalClient, err = NewClient()
	return globalClient, err
}

// IsLinked returns true if this device is linked to a Charm account.
func (c *Client) IsLinked() bool {
	_, err := c.ID()
	return err == nil
}

// GetCharmHost returns the configured Charm host.
func GetCharmHost() string {
	if host := os.Getenv("CHARM_HOST"); host != "" {
		return host
	}
	return "charm.2389.dev"
}

// RepairDB attempts to repair a corrupted database without opening it.
// This can be called even when the database is too corrupted to open normally.
func RepairDB(force bool) (*kv.RepairResult, error) {
	return kv.Repair(DBName, force)
}

// ResetDBFromCloud resets the database without requiring an open client.
// This deletes local data and re-syncs from cloud.
func ResetDBFromCloud() error {
	return kv.Reset(DBName)
}

// Wipe completely wipes all data including cloud backups.
func (c *Client) Wipe() (*kv.WipeResult, error) {
	return kv.Wipe(DBName)
}
