////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gitlab.com/elixxir/workpile/cmd/conf"
	"gopkg.in/yaml.v2"
)

func testParams(t *testing.T, settings map[string]interface{}) *conf.Params {
	vip := viper.New()
	for k, v := range settings {
		vip.Set(k, v)
	}
	params, err := conf.NewParams(vip)
	require.NoError(t, err)
	return params
}

func TestRunFilter_Increment(t *testing.T) {
	params := testParams(t, map[string]interface{}{
		"workers":        2,
		"reductionDepth": 1,
		"strategy":       "queue",
	})

	out := &bytes.Buffer{}
	require.NoError(t, runFilter(params, out))

	summary := runSummary{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &summary))
	require.Equal(t, conf.IncrementFilter, summary.Filter)
	require.Equal(t, "queue", summary.Strategy)
	require.Equal(t, []int{4, 8}, summary.Extent)
	require.Equal(t, 8, summary.JobCount)
	require.Len(t, summary.JobsPerWorker, 2)
	require.Equal(t, 8, summary.JobsPerWorker[0]+summary.JobsPerWorker[1])
	require.Empty(t, summary.Error)
}

func TestRunFilter_Threshold(t *testing.T) {
	params := testParams(t, map[string]interface{}{
		"workers": 3,
		"extent":  []int{6, 5, 4},
		"filter":  conf.ThresholdFilter,
	})

	out := &bytes.Buffer{}
	require.NoError(t, runFilter(params, out))

	summary := runSummary{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &summary))
	require.Equal(t, "bulk", summary.Strategy)
	require.Equal(t, 3, summary.ReductionDepth)
	require.Equal(t, 120, summary.JobCount)
}

func TestRunFilter_NoDatabase(t *testing.T) {
	params := testParams(t, map[string]interface{}{"devMode": false})
	require.Error(t, runFilter(params, &bytes.Buffer{}))
}
