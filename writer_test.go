package duphash

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePairs(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WritePairs(&buf, res))

	assert.Equal(t, strings.Join([]string{
		"0 0 0 1 2 3",
		"0 0 1 0 1 3",
		"0 1 0 0 2 3",
		"1 0 0 0 1 3",
	}, "\n")+"\n", buf.String())
}

func TestWritePairs_Empty(t *testing.T) {
	res, err := Aggregate(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePairs(&buf, res))
	assert.Empty(t, buf.String())
}

func TestWriteUnique(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteUnique(&buf, res))
	assert.Equal(t, "0 0 3\n0 1 2\n1 0 1\n2 1 1\n", buf.String())
}

func TestWriteMatrix(t *testing.T) {
	res, err := Aggregate([]Record{rec("h1", idA), rec("h1", idB), rec("h2", idA)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, res.Matrix()))

	assert.Equal(t,
		"\t(0, 0)\t(0, 1)\n"+
			"(0, 0)\t0.000000\t0.500000\n"+
			"(0, 1)\t0.500000\t0.000000\n",
		buf.String())
}

func TestWriteClusters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClusters(&buf, [][]Identity{{idA, idB}, {idC}}))
	assert.Equal(t, "0:0 0:1\n1:0\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestWriters_PropagateErrors(t *testing.T) {
	res := sampleResult(t)

	assert.Error(t, WritePairs(failingWriter{}, res))
	assert.Error(t, WriteUnique(failingWriter{}, res))
	assert.Error(t, WriteMatrix(failingWriter{}, res.Matrix()))
	assert.Error(t, WriteClusters(failingWriter{}, res.Clusters(0)))
}
