package redis

import "fmt"

// userKey returns the Redis key for a stored credential
func (s *Storage) userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", s.cfg.KeyPrefix, username)
}

// sessionKey returns the Redis key for a session
func (s *Storage) sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", s.cfg.KeyPrefix, token)
}

// sessionPattern matches every session key for SCAN
func (s *Storage) sessionPattern() string {
	return fmt.Sprintf("%s:session:*", s.cfg.KeyPrefix)
}
