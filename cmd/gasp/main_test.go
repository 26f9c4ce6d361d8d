// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-air/gasp/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGasp(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestStdin(t *testing.T) {
	code, out, _ := runGasp(t, "a. b :- a.")
	assert.Equal(t, 0, code)
	assert.Equal(t, "Answer: 1\na b\nSATISFIABLE\n", out)
}

func TestSatcomp(t *testing.T) {
	code, _, _ := runGasp(t, "a.", "--satcomp")
	assert.Equal(t, 10, code)
	code, out, _ := runGasp(t, "a. :- a.", "--satcomp", "-")
	assert.Equal(t, 20, code)
	assert.Equal(t, "UNSATISFIABLE\n", out)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "p.lp")
	require.NoError(t, os.WriteFile(plain, []byte("#const n = 2. p(1..n).\n#show p/1.\n"), 0o644))

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("q :- p(2).\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	packed := filepath.Join(dir, "q.lp.gz")
	require.NoError(t, os.WriteFile(packed, buf.Bytes(), 0o644))

	code, out, _ := runGasp(t, "", plain, packed)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Answer: 1\np(1) p(2)\nSATISFIABLE\n", out)

	code, out, _ = runGasp(t, "", "-c", "n=1", plain, packed)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Answer: 1\np(1)\nSATISFIABLE\n", out)

	code, _, errOut := runGasp(t, "", filepath.Join(dir, "missing.lp"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "gasp:")
}

func TestModelsAndAssume(t *testing.T) {
	code, out, _ := runGasp(t, "{ a; b }.", "-n", "1")
	assert.Equal(t, 0, code)
	assert.Equal(t, 1, strings.Count(out, "Answer:"))

	_, out, _ = runGasp(t, "{ a; b }.", "--assume", "a", "--assume", "not b")
	assert.Equal(t, "Answer: 1\na\nSATISFIABLE\n", out)

	code, _, errOut := runGasp(t, "a.", "--assume", "X")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid assumption")
}

func TestText(t *testing.T) {
	code, out, _ := runGasp(t, "p(1..2). q(X) :- p(X).", "--text")
	assert.Equal(t, 0, code)
	assert.Equal(t, "p(1).\np(2).\nq(1) :- p(1).\nq(2) :- p(2).\n", out)
}

func TestCNF(t *testing.T) {
	code, out, _ := runGasp(t, "{ a }. b :- a.", "--cnf", "--assume", "b")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "c atom ")
	assert.Contains(t, out, "\np cnf ")
	assert.NotContains(t, out, "Answer:")
}

func TestStats(t *testing.T) {
	code, out, _ := runGasp(t, "{ a; b }.", "--stats", "-n", "2")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Models")
	assert.Contains(t, out, "2+")
	assert.Contains(t, out, "Solve calls")
}

func TestErrors(t *testing.T) {
	code, _, errOut := runGasp(t, "a :- .")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "parsing failed")

	code, _, _ = runGasp(t, "a.", "--bogus")
	assert.Equal(t, 1, code)

	_, _, errOut = runGasp(t, "a :- b.")
	assert.Contains(t, errOut, "atom does not occur in any rule head: b")
}

func TestControlArgs(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.AddFlagSet(config.Flags("test"))
	fs.Bool("text", false, "")
	require.NoError(t, fs.Parse([]string{"--text", "--message-limit", "0", "-c", "k=1", "-c", "j=2"}))
	assert.Equal(t, []string{"--const=k=1", "--const=j=2", "--message-limit=0"}, controlArgs(fs))

	code, _, _ := runGasp(t, "a.", "--verbose", "--message-limit", "0", "-c", "k=1")
	assert.Equal(t, 0, code)
}
