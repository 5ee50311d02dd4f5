////////////////////////////////////////////////////////////////////////////////
// Copyright © 2022 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Handles low level database control and interfaces

package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbTimeout determines maximum runtime (in seconds) of specific DB queries
const DbTimeout = 1

// Interface declaration for storage methods
type database interface {
	InsertDispatch(d *Dispatch) error
	GetDispatch(id string) (*Dispatch, error)
	GetDispatches(limit int) ([]*Dispatch, error)
}

// DatabaseImpl Struct implementing the database Interface with an underlying DB
type DatabaseImpl struct {
	db *gorm.DB // Stored database connection
}

// MapImpl Struct implementing the database Interface with an underlying Map
type MapImpl struct {
	dispatches map[string]*Dispatch
	sync.Mutex
}

// Dispatch is the stored summary of one finished dispatch
type Dispatch struct {
	Id string `gorm:"primaryKey"`

	Strategy       string `gorm:"not null"`
	Extent         string `gorm:"not null"`
	Workers        int    `gorm:"not null"`
	ReductionDepth int    `gorm:"not null"`
	JobCount       int    `gorm:"not null"`
	// Comma separated job count of each worker
	JobsPerWorker string

	Started time.Time     `gorm:"not null;index"`
	Elapsed time.Duration `gorm:"not null"`
	Error   string
}

// Initialize the database interface with database backend
// Returns a database interface and error
func newDatabase(username, password, dbName, address, port string,
	devMode bool) (database, error) {
	var err error
	var db *gorm.DB

	// Connect to the database if the correct information is provided
	if address != "" && port != "" {
		connectString := fmt.Sprintf(
			"host=%s port=%s user=%s dbname=%s sslmode=disable",
			address, port, username, dbName)
		// Handle empty database password
		if len(password) > 0 {
			connectString += fmt.Sprintf(" password=%s", password)
		}
		db, err = gorm.Open(postgres.Open(connectString), &gorm.Config{
			Logger: logger.New(jww.TRACE, logger.Config{LogLevel: logger.Info}),
		})
	}

	// Return the map-backend interface
	// in the event there is a database error or information is not provided
	if (address == "" || port == "") || err != nil {

		var failReason string
		if err != nil {
			failReason = fmt.Sprintf("Unable to initialize database backend: %+v", err)
		} else {
			failReason = "Database backend connection information not provided"
		}
		jww.WARN.Print(failReason)

		if !devMode {
			return nil, errors.Errorf("Cannot run in production "+
				"without a database: %s", failReason)
		}

		defer jww.INFO.Println("Map backend initialized successfully!")
		return database(newMapImpl()), nil
	}

	// Get and configure the internal database ConnPool
	sqlDb, err := db.DB()
	if err != nil {
		return nil, errors.Errorf("Unable to configure database connection pool: %+v", err)
	}
	sqlDb.SetMaxIdleConns(10)
	sqlDb.SetMaxOpenConns(100)
	sqlDb.SetConnMaxLifetime(24 * time.Hour)

	// Initialize the database schema
	// WARNING: Order is important. Do not change without database testing
	models := []interface{}{&Dispatch{}}
	for _, model := range models {
		err = db.AutoMigrate(model)
		if err != nil {
			return nil, err
		}
	}

	jww.INFO.Println("Database backend initialized successfully!")
	return database(&DatabaseImpl{db: db}), nil
}

func newMapImpl() *MapImpl {
	return &MapImpl{dispatches: make(map[string]*Dispatch)}
}
