package human

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sanctum/internal/core/gateway"
	"sanctum/internal/core/invoke"
	"sanctum/internal/core/translate"
)

type HumanSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
}

func TestHumanSuite(t *testing.T) {
	suite.Run(t, new(HumanSuite))
}

func (s *HumanSuite) SetupTest() {
	s.ctx = context.Background()
	translator := translate.New()
	gw := gateway.New(nil)
	inv, err := invoke.New(gw)
	s.Require().NoError(err)
	s.service, err = New(translator, gw, inv)
	s.Require().NoError(err)
}

func (s *HumanSuite) TestAliceEndToEnd() {
	sub, err := s.service.CreateSubstrate(s.ctx, "alice",
		translate.ExpressionSpec{Kind: translate.ExprConstant, Value: 100})
	s.Require().NoError(err)

	lens, err := s.service.CreateLens(s.ctx, "view",
		translate.ProjectionSpec{Kind: translate.ProjIdentity})
	s.Require().NoError(err)

	resp, err := s.service.Invoke(s.ctx, sub, lens)
	s.Require().NoError(err)
	s.Equal(uint64(100), resp.Value)
	s.Equal(uint64(sub.ID()), resp.SubstrateID)

	promoted, err := s.service.Promote(s.ctx, sub, 200, "grew up")
	s.Require().NoError(err)
	s.NotEqual(promoted.OldIdentity, promoted.NewIdentity)

	// Identical inputs reproduce the same new identity.
	again, err := s.service.Promote(s.ctx, sub, 200, "grew up")
	s.Require().NoError(err)
	s.Equal(promoted.NewIdentity, again.NewIdentity)

	// A different description hashes to a different delta.
	other, err := s.service.Promote(s.ctx, sub, 200, "moved away")
	s.Require().NoError(err)
	s.NotEqual(promoted.NewIdentity, other.NewIdentity)
}

func (s *HumanSuite) TestNameHashingIsDeterministic() {
	first, err := s.service.CreateSubstrate(s.ctx, "alice",
		translate.ExpressionSpec{Kind: translate.ExprConstant, Value: 1})
	s.Require().NoError(err)
	second, err := s.service.CreateSubstrate(s.ctx, "alice",
		translate.ExpressionSpec{Kind: translate.ExprConstant, Value: 2})
	s.Require().NoError(err)
	s.Equal(first.ID(), second.ID())
}

func (s *HumanSuite) TestEmptyNamesAreRejected() {
	_, err := s.service.CreateSubstrate(s.ctx, "",
		translate.ExpressionSpec{Kind: translate.ExprConstant})
	s.Require().Error(err)

	_, err = s.service.CreateLens(s.ctx, "",
		translate.ProjectionSpec{Kind: translate.ProjIdentity})
	s.Require().Error(err)
}

func TestCalculateAge(t *testing.T) {
	t.Run("pure subtraction", func(t *testing.T) {
		age, err := CalculateAge(1_000, 5_000)
		require.NoError(t, err)
		require.Equal(t, int64(4_000), age)
	})

	t.Run("now before birth fails", func(t *testing.T) {
		_, err := CalculateAge(5_000, 1_000)
		require.Error(t, err)
	})

	t.Run("negative timestamps fail", func(t *testing.T) {
		_, err := CalculateAge(-1, 1_000)
		require.Error(t, err)
	})
}
