////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"gitlab.com/elixxir/workpile/cmd/conf"
	"gitlab.com/elixxir/workpile/filters"
	"gitlab.com/elixxir/workpile/services"
	"gitlab.com/elixxir/workpile/storage"
	"gopkg.in/yaml.v2"
)

func init() {
	runCmd.Flags().IntSliceP("extent", "e", []int{4, 8},
		"Size of the domain along each axis")
	runCmd.Flags().IntP("workers", "w", services.AutoNumWorkers,
		"Number of workers, 0 uses GOMAXPROCS")
	runCmd.Flags().IntP("depth", "d", -1,
		"Number of trailing axes split into jobs, negative is automatic")
	runCmd.Flags().StringP("strategy", "s", string(services.Bulk),
		"Dispatch strategy: bulk or queue")
	runCmd.Flags().String("counter", string(services.AtomicCounter),
		"Job counter of the queue strategy: atomic or mutex")
	runCmd.Flags().StringP("filter", "f", conf.IncrementFilter,
		"Filter to run: increment or threshold")

	bindings := map[string]string{
		"extent":         "extent",
		"workers":        "workers",
		"reductionDepth": "depth",
		"strategy":       "strategy",
		"counter":        "counter",
		"filter":         "filter",
	}
	for key, flag := range bindings {
		err := viper.BindPFlag(key, runCmd.Flags().Lookup(flag))
		handleBindingError(err, flag)
	}

	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a filter over a synthetic volume",
	Long: `Allocates a volume of the configured extent, runs the configured
filter over it through the dispatch engine, checks the output and prints a
report of the dispatch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := conf.NewParams(viper.GetViper())
		if err != nil {
			return err
		}
		return runFilter(params, cmd.OutOrStdout())
	},
}

// runSummary is the YAML document printed after a run
type runSummary struct {
	ID             string   `yaml:"id"`
	Filter         string   `yaml:"filter"`
	Strategy       string   `yaml:"strategy"`
	Extent         []int    `yaml:"extent"`
	Workers        int      `yaml:"workers"`
	ReductionDepth int      `yaml:"reductionDepth"`
	JobCount       int      `yaml:"jobCount"`
	JobsPerWorker  []int    `yaml:"jobsPerWorker"`
	Busy           []string `yaml:"busy"`
	Elapsed        string   `yaml:"elapsed"`
	Error          string   `yaml:"error,omitempty"`
}

func runFilter(params *conf.Params, out io.Writer) error {
	cfg, err := params.ConvertToConfig()
	if err != nil {
		return err
	}

	store, err := storage.NewStorage(params.Database.Username,
		params.Database.Password, params.Database.Name,
		params.Database.Address, params.Database.Port, params.DevMode)
	if err != nil {
		return err
	}

	engine, err := services.NewEngine(cfg)
	if err != nil {
		return err
	}
	if err = engine.Configure(params.DomainExtent(), cfg.Workers,
		cfg.ReductionDepth); err != nil {
		return err
	}

	input, err := filters.NewVolume(params.DomainExtent())
	if err != nil {
		return err
	}

	var task services.Task
	var output **filters.Volume
	var expected int16
	switch params.Filter {
	case conf.ThresholdFilter:
		th := filters.NewThreshold(input, nil, 1, 0, 1)
		task, output, expected = th, &th.Output, 0
	default:
		inc := filters.NewIncrement(input, nil, 1)
		task, output, expected = inc, &inc.Output, 1
	}

	report, dispatchErr := engine.Dispatch(task)
	if report != nil {
		if _, err = store.Record(report); err != nil {
			jww.WARN.Printf("Could not store dispatch %s: %+v", report.ID,
				err)
		}
		if err = printSummary(out, params.Filter, report); err != nil {
			return err
		}
	}
	if dispatchErr != nil {
		return dispatchErr
	}

	if coord, found := (*output).Find(func(v int16) bool {
		return v == expected
	}); found {
		return errors.Errorf("%s produced %d instead of %d at %v",
			params.Filter, (*output).At(coord), expected, coord)
	}
	return nil
}

func printSummary(out io.Writer, filter string, r *services.Report) error {
	busy := make([]string, len(r.Busy))
	for i, b := range r.Busy {
		busy[i] = b.Round(time.Microsecond).String()
	}

	buf, err := yaml.Marshal(runSummary{
		ID:             r.ID.String(),
		Filter:         filter,
		Strategy:       string(r.Strategy),
		Extent:         r.Extent,
		Workers:        r.Workers,
		ReductionDepth: r.ReductionDepth,
		JobCount:       r.JobCount,
		JobsPerWorker:  r.JobsPerWorker,
		Busy:           busy,
		Elapsed:        r.Elapsed.String(),
		Error:          r.Err,
	})
	if err != nil {
		return errors.WithMessage(err, "could not encode report")
	}
	_, err = fmt.Fprint(out, string(buf))
	return err
}
