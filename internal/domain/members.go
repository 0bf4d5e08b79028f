package domain

import (
	"reflect"

	"golang.org/x/exp/maps"
)

// Member is one connected participant. Send must not block: implementations
// queue the payload and return an error when it cannot be queued. Handles
// are compared by identity, so implementations should be pointer types.
type Member interface {
	Username() string
	Send(data []byte) error
}

// members is a set keyed by handle identity.
type members map[Member]struct{}

func (m members) add(member Member) {
	m[member] = struct{}{}
}

func (m members) remove(member Member) {
	delete(m, member)
}

func (m members) has(member Member) bool {
	_, ok := m[member]
	return ok
}

func (m members) list() []Member {
	return maps.Keys(m)
}

func isNilMember(member Member) bool {
	if member == nil {
		return true
	}

	v := reflect.ValueOf(member)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
