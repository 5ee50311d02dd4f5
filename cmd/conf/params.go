////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package conf turns the viper configuration into engine and storage
// parameters.
package conf

import (
	"net"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"github.com/spf13/viper"
	"gitlab.com/elixxir/workpile/region"
	"gitlab.com/elixxir/workpile/services"
)

// Filter names accepted by the filter key
const (
	IncrementFilter = "increment"
	ThresholdFilter = "threshold"
)

// Params is used by the run command.
// It should be constructed using a viper object
type Params struct {
	Workers        int    `yaml:"workers"`
	ReductionDepth int    `yaml:"reductionDepth"`
	JobsPerWorker  int    `yaml:"jobsPerWorker"`
	Strategy       string `yaml:"strategy"`
	Counter        string `yaml:"counter"`

	Extent []int  `yaml:"extent"`
	Filter string `yaml:"filter"`

	Database Database `yaml:"database"`
	Log      string   `yaml:"log"`
	DevMode  bool     `yaml:"devMode"`
}

// NewParams gets elements of the viper object
// and updates the params object. It returns params
// unless it fails to parse in which it case returns error
func NewParams(vip *viper.Viper) (*Params, error) {
	vip.SetDefault("workers", services.AutoNumWorkers)
	vip.SetDefault("reductionDepth", region.AutoReductionDepth)
	vip.SetDefault("jobsPerWorker", region.JobsPerWorkerTarget)
	vip.SetDefault("strategy", string(services.Bulk))
	vip.SetDefault("counter", string(services.AtomicCounter))
	vip.SetDefault("filter", IncrementFilter)
	vip.SetDefault("extent", []int{4, 8})
	vip.SetDefault("devMode", true)

	params := Params{}

	params.Workers = vip.GetInt("workers")
	if params.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d",
			params.Workers)
	}
	params.ReductionDepth = vip.GetInt("reductionDepth")
	params.JobsPerWorker = vip.GetInt("jobsPerWorker")
	params.Strategy = vip.GetString("strategy")
	params.Counter = vip.GetString("counter")
	params.Extent = vip.GetIntSlice("extent")
	params.Filter = vip.GetString("filter")
	params.Log = vip.GetString("log")
	params.DevMode = vip.GetBool("devMode")

	if _, err := services.ParseStrategy(params.Strategy); err != nil {
		return nil, err
	}
	if _, err := services.ParseCounterKind(params.Counter); err != nil {
		return nil, err
	}
	if err := region.Extent(params.Extent).Validate(); err != nil {
		return nil, errors.WithMessage(err, "extent")
	}
	if params.Filter != IncrementFilter && params.Filter != ThresholdFilter {
		return nil, errors.Errorf("unknown filter %q", params.Filter)
	}

	// Obtain database connection info
	rawAddr := vip.GetString("database.address")
	if rawAddr != "" {
		addr, port, err := net.SplitHostPort(rawAddr)
		if err != nil {
			return nil, errors.Errorf("Unable to get database port "+
				"from %s: %+v", rawAddr, err)
		}
		params.Database.Address = addr
		params.Database.Port = port
	}
	params.Database.Name = vip.GetString("database.name")
	params.Database.Username = vip.GetString("database.username")
	params.Database.Password = vip.GetString("database.password")

	jww.DEBUG.Printf("Params: workers %d, depth %d, strategy %s, "+
		"extent %v", params.Workers, params.ReductionDepth, params.Strategy,
		params.Extent)

	return &params, nil
}

// ConvertToConfig builds the engine configuration
func (p *Params) ConvertToConfig() (services.Config, error) {
	cfg := services.DefaultConfig()
	if err := copier.Copy(&cfg, p); err != nil {
		return services.Config{}, errors.WithMessage(err,
			"could not copy params")
	}

	var err error
	if cfg.Strategy, err = services.ParseStrategy(p.Strategy); err != nil {
		return services.Config{}, err
	}
	if cfg.Counter, err = services.ParseCounterKind(p.Counter); err != nil {
		return services.Config{}, err
	}
	return cfg, nil
}

// DomainExtent returns the configured domain
func (p *Params) DomainExtent() region.Extent {
	return region.Extent(p.Extent).Clone()
}
