package utilities

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// ShortSuffix returns n lowercase characters taken from the random payload
// end of a fresh KSUID. Used to de-duplicate stored file names.
func ShortSuffix(n int) string {
	s := ksuid.New().String()
	if n <= 0 || n > len(s) {
		n = len(s)
	}
	return strings.ToLower(s[len(s)-n:])
}

// NewSnowflakeID generates a snowflake ID string using a node ID from
// the environment variable SNOWFLAKE_NODE. The node is created once per
// process so sequence numbers stay monotonic. If node setup fails it falls
// back to a KSUID string to ensure a unique ID is returned.
func NewSnowflakeID() string {
	nodeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				nodeID = n
			}
		}
		n, err := snowflake.NewNode(nodeID)
		if err != nil {
			n, _ = snowflake.NewNode(1)
		}
		node = n
	})
	if node == nil {
		return NewKSUID()
	}
	return node.Generate().String()
}
