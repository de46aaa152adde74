package example2

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"github.com/chararch/batchstat"
	"github.com/chararch/batchstat/adapters/repository"
	"github.com/chararch/batchstat/extensions/reports"
)

// ExportBatchReport derive the current view of a batch and export it as a csv
// report under dir.
func ExportBatchReport(dsn string, batchId int64, dir string) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	repo := repository.New(db, batchstat.NewLogger(os.Stdout, batchstat.Warn))
	reporter, err := batchstat.NewReporter(repo)
	if err != nil {
		return err
	}

	ctx := context.Background()
	batch, err := reporter.AggregateBatch(ctx, batchId)
	if err != nil {
		return err
	}
	configRows, cerr := repo.FindConfigurationsByBatch(batchId)
	if cerr != nil {
		return cerr
	}
	configs := make([]*batchstat.AggregatedConfiguration, 0, len(configRows))
	for _, row := range configRows {
		config, err := reporter.AggregateConfiguration(ctx, row.JobConfigurationId)
		if err != nil {
			return err
		}
		configs = append(configs, config)
	}

	writer := reports.NewWriter(reports.NewLocalFileStore(dir))
	fileName := fmt.Sprintf("batch-%v-status.csv", batchId)
	return writer.Write(fileName, batch, configs)
}
