package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/language-alignment/internal/alignment"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammar.json")
	body := `{"original_to_escaped": {"logo_FW(RT)": "logo_FW_RT_"}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	g, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"logo_FW(RT)": "logo_FW_RT_"}, g.OriginalToEscaped())
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammar.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEscapeMap_UnescapesRankedTokens(t *testing.T) {
	var g alignment.Grammar = New(map[string]string{"logo_FW(RT)": "logo_FW_RT_"})
	a := alignment.NewAlignments([]alignment.AlignmentRecord{
		{Token: "logo_FW_RT_", Word: "line", Probability: 0.5},
	})

	out, err := alignment.RankTranslations(a, g, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"logo_FW(RT)"}, out.Tokens())
}

func TestNew_NilMap(t *testing.T) {
	assert.NotNil(t, New(nil).OriginalToEscaped())
}
