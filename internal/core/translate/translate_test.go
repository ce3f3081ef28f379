package translate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "sanctum/pkg/domain-errors"
)

func TestIdentityTranslation(t *testing.T) {
	t.Run("negative integers are not addressable", func(t *testing.T) {
		_, err := Identity(-1)
		require.Error(t, err)
		require.True(t, dErrors.Is(err, dErrors.CodeTranslation))
	})

	t.Run("non-negative integers pass through", func(t *testing.T) {
		id, err := Identity(42)
		require.NoError(t, err)
		require.Equal(t, uint64(42), id)
	})

	t.Run("text hashing is deterministic", func(t *testing.T) {
		first := IdentityFromText("alice")
		second := IdentityFromText("alice")
		require.Equal(t, first, second)
	})

	t.Run("distinct texts yield distinct identities", func(t *testing.T) {
		require.NotEqual(t, IdentityFromText("alice"), IdentityFromText("bob"))
	})

	t.Run("text and equivalent bytes agree", func(t *testing.T) {
		require.Equal(t, IdentityFromText("alice"), IdentityFromBytes([]byte("alice")))
	})
}

type TranslatorSuite struct {
	suite.Suite
	translator *Translator
}

func TestTranslatorSuite(t *testing.T) {
	suite.Run(t, new(TranslatorSuite))
}

func (s *TranslatorSuite) SetupTest() {
	s.translator = New()
}

func (s *TranslatorSuite) TestExpressions() {
	s.Run("constant returns its value", func() {
		expr, err := s.translator.Expression(ExpressionSpec{Kind: ExprConstant, Value: 100})
		s.Require().NoError(err)
		s.Equal(uint64(100), expr())
	})

	s.Run("derived returns base plus offset", func() {
		expr, err := s.translator.Expression(ExpressionSpec{Kind: ExprDerived, Base: 40, Offset: 2})
		s.Require().NoError(err)
		s.Equal(uint64(42), expr())
	})

	s.Run("composite xor folds parts", func() {
		expr, err := s.translator.Expression(ExpressionSpec{
			Kind: ExprComposite,
			Fold: FoldXor,
			Parts: []ExpressionSpec{
				{Kind: ExprConstant, Value: 0b1100},
				{Kind: ExprConstant, Value: 0b1010},
			},
		})
		s.Require().NoError(err)
		s.Equal(uint64(0b0110), expr())
	})

	s.Run("composite add folds parts", func() {
		expr, err := s.translator.Expression(ExpressionSpec{
			Kind: ExprComposite,
			Fold: FoldAdd,
			Parts: []ExpressionSpec{
				{Kind: ExprConstant, Value: 30},
				{Kind: ExprConstant, Value: 12},
			},
		})
		s.Require().NoError(err)
		s.Equal(uint64(42), expr())
	})

	s.Run("composite requires parts", func() {
		_, err := s.translator.Expression(ExpressionSpec{Kind: ExprComposite, Fold: FoldAdd})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeTranslation))
	})

	s.Run("composite rejects unknown fold", func() {
		_, err := s.translator.Expression(ExpressionSpec{
			Kind:  ExprComposite,
			Fold:  "mul",
			Parts: []ExpressionSpec{{Kind: ExprConstant, Value: 1}},
		})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeTranslation))
	})

	s.Run("unknown kinds land in the unsupported branch", func() {
		_, err := s.translator.Expression(ExpressionSpec{Kind: "quantum"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeTranslation))
	})

	s.Run("timestamp tracks the clock", func() {
		expr, err := s.translator.Expression(ExpressionSpec{Kind: ExprTimestamp})
		s.Require().NoError(err)
		first := expr()
		time.Sleep(2 * time.Millisecond)
		second := expr()
		s.GreaterOrEqual(second, first)
	})
}

func (s *TranslatorSuite) TestProjections() {
	s.Run("identity passes through", func() {
		proj, err := s.translator.Projection(ProjectionSpec{Kind: ProjIdentity})
		s.Require().NoError(err)
		s.Equal(uint64(0xAABBCCDD), proj(0xAABBCCDD))
	})

	s.Run("mask extracts the low byte", func() {
		proj, err := s.translator.Projection(ProjectionSpec{Kind: ProjMask, Mask: 0xFF, Shift: 0})
		s.Require().NoError(err)
		s.Equal(uint64(0xDD), proj(0xAABBCCDD))
	})

	s.Run("extract_bits pulls the high half-word", func() {
		proj, err := s.translator.Projection(ProjectionSpec{Kind: ProjExtractBits, Start: 16, Length: 16})
		s.Require().NoError(err)
		s.Equal(uint64(0xFFFF), proj(0xFFFF0000))
	})

	s.Run("extract_bits window must fit the width", func() {
		_, err := s.translator.Projection(ProjectionSpec{Kind: ProjExtractBits, Start: 60, Length: 8})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeTranslation))
	})

	s.Run("mask shift must fit the width", func() {
		_, err := s.translator.Projection(ProjectionSpec{Kind: ProjMask, Mask: 1, Shift: 64})
		s.Require().Error(err)
	})

	s.Run("unknown kinds fail", func() {
		_, err := s.translator.Projection(ProjectionSpec{Kind: "rotate"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeTranslation))
	})
}

func (s *TranslatorSuite) TestClosureCache() {
	s.Run("identical constant specs share a cache entry", func() {
		spec := ExpressionSpec{Kind: ExprConstant, Value: 7}
		_, err := s.translator.Expression(spec)
		s.Require().NoError(err)
		size := s.translator.CacheSize()
		_, err = s.translator.Expression(spec)
		s.Require().NoError(err)
		s.Equal(size, s.translator.CacheSize())
	})

	s.Run("timestamp specs never enter the cache", func() {
		before := s.translator.CacheSize()
		_, err := s.translator.Expression(ExpressionSpec{Kind: ExprTimestamp})
		s.Require().NoError(err)
		s.Equal(before, s.translator.CacheSize())
	})

	s.Run("composites containing timestamps stay uncached", func() {
		before := s.translator.CacheSize()
		expr, err := s.translator.Expression(ExpressionSpec{
			Kind: ExprComposite,
			Fold: FoldAdd,
			Parts: []ExpressionSpec{
				{Kind: ExprTimestamp},
				{Kind: ExprConstant, Value: 1},
			},
		})
		s.Require().NoError(err)
		s.NotNil(expr)
		// The constant sub-expression may be cached; the composite must not be.
		s.LessOrEqual(s.translator.CacheSize(), before+1)
	})
}
