package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IGCrystal-NEO/ewords/internal/session"
	"github.com/IGCrystal-NEO/ewords/internal/vocabulary"
	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

func TestParseReviewArgs(t *testing.T) {
	mode, reviewType, err := parseReviewArgs("")
	require.NoError(t, err)
	assert.Equal(t, models.WordToTranslation, mode)
	assert.Equal(t, models.ReviewByGroup, reviewType)

	mode, reviewType, err = parseReviewArgs("translation random")
	require.NoError(t, err)
	assert.Equal(t, models.TranslationToWord, mode)
	assert.Equal(t, models.ReviewRandom, reviewType)

	mode, reviewType, err = parseReviewArgs("s g")
	require.NoError(t, err)
	assert.Equal(t, models.SentenceToTranslation, mode)
	assert.Equal(t, models.ReviewByGroup, reviewType)

	_, _, err = parseReviewArgs("sideways")
	assert.Error(t, err)
}

func TestErrorTextMapsCoreErrors(t *testing.T) {
	assert.Contains(t, errorText(vocabulary.ErrSourceNotFound), "previous source stays active")
	assert.Contains(t, errorText(session.ErrNoPendingReview), "/review")
	assert.Contains(t, errorText(session.ErrNoHistory), "/memorize")
}
