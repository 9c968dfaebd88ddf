package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dh "github.com/wallarm/duphash"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, dh.DefaultFormat(), cfg.Format())
	assert.Equal(t, runtime.NumCPU(), cfg.Concurrency)
	assert.False(t, cfg.Strict.Enabled)
	assert.Nil(t, cfg.AggregatorOptions())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty document keeps defaults",
			yaml: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "duplicate log layout",
			yaml: `
input:
  delimiter: ","
  hash_column: 2
  producer_column: 5
  strategy_column: 6
  skip_header: true
  comment: "#"
strict:
  enabled: true
  window: 4096
output:
  dir: out
clusters:
  min_ratio: 0.25
concurrency: 2
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, dh.Format{
					Delimiter:      ",",
					HashColumn:     2,
					ProducerColumn: 5,
					StrategyColumn: 6,
					SkipHeader:     true,
					Comment:        "#",
				}, cfg.Format())
				assert.Equal(t, StrictConfig{Enabled: true, Window: 4096}, cfg.Strict)
				assert.Equal(t, "out", cfg.Output.Dir)
				assert.InDelta(t, 0.25, cfg.Clusters.MinRatio, 1e-9)
				assert.Equal(t, 2, cfg.Concurrency)
				assert.Len(t, cfg.AggregatorOptions(), 1)
			},
		},
		{
			name: "partial input section keeps other defaults",
			yaml: "input:\n  delimiter: \"\\t\"\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "\t", cfg.Input.Delimiter)
				assert.Equal(t, 1, cfg.Input.ProducerColumn)
				assert.Equal(t, 2, cfg.Input.StrategyColumn)
			},
		},
		{
			name:    "unknown key",
			yaml:    "inputs:\n  delimiter: \",\"\n",
			wantErr: true,
		},
		{
			name:    "overlapping columns",
			yaml:    "input:\n  producer_column: 0\n",
			wantErr: true,
		},
		{
			name:    "negative window",
			yaml:    "strict:\n  window: -1\n",
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			yaml:    "concurrency: 0\n",
			wantErr: true,
		},
		{
			name:    "ratio out of range",
			yaml:    "clusters:\n  min_ratio: 1.5\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			yaml:    "input: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestParse_ValidationErrorsWrapSentinel(t *testing.T) {
	_, err := Parse([]byte("concurrency: -3\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAggregatorOptions_UnboundedStrict(t *testing.T) {
	cfg := Default()
	cfg.Strict.Enabled = true

	opts := cfg.AggregatorOptions()
	require.Len(t, opts, 1)

	_, err := dh.Aggregate([]dh.Record{
		{Hash: "a"}, {Hash: "b"}, {Hash: "a"},
	}, opts...)
	assert.ErrorIs(t, err, dh.ErrNonContiguousGroup)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "duphash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concurrency: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Concurrency)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
