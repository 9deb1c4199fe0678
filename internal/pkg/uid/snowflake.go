package uid

import (
	"crypto/sha256"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-sortable int64 identifiers.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator whose node number is derived from the
// hostname, so replicas on different hosts are unlikely to collide.
func NewSnowflake() (*Snowflake, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}

	sum := sha256.Sum256([]byte(host))
	nodeID := (int64(sum[0])<<8 | int64(sum[1])) % 1024

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID as int64.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
