package expr

import "sync"

// Cache memoizes Parse results by source string (spec.md §4.2, §5: "the
// expression memoization table"). The zero value is ready to use.
type Cache struct {
	mu     sync.Mutex
	parsed map[string][]Token
	err    map[string]error
}

// NewCache returns an empty, ready-to-use Cache.
func NewCache() *Cache {
	return &Cache{parsed: map[string][]Token{}, err: map[string]error{}}
}

// Parse returns the memoized RPN stream for src, parsing and caching it on
// first use.
func (c *Cache) Parse(src string) ([]Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.parsed == nil {
		c.parsed = map[string][]Token{}
	}
	if c.err == nil {
		c.err = map[string]error{}
	}
	if rpn, ok := c.parsed[src]; ok {
		return rpn, nil
	}
	if err, ok := c.err[src]; ok {
		return nil, err
	}
	rpn, err := Parse(src)
	if err != nil {
		c.err[src] = err
		return nil, err
	}
	c.parsed[src] = rpn
	return rpn, nil
}
