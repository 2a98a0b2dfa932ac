package whitelist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) TestAddAndContains() {
	ok, err := s.store.Contains(s.ctx, "a")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Add(s.ctx, "a"))

	ok, err = s.store.Contains(s.ctx, "a")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *InMemorySuite) TestRemove() {
	s.Require().NoError(s.store.Add(s.ctx, "a"))
	s.Require().NoError(s.store.Remove(s.ctx, "a"))

	ok, err := s.store.Contains(s.ctx, "a")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *InMemorySuite) TestRemoveUnknownIsNoop() {
	s.Require().NoError(s.store.Remove(s.ctx, "missing"))
}
