package test

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"github.com/chararch/batchstat"
	"github.com/chararch/batchstat/adapters/repository"
)

func main() {
	// set db holding the workflow rows and the rule table
	var db *sql.DB
	var err error
	db, err = sql.Open("mysql", "root:root123@tcp(127.0.0.1:3306)/batchstat?charset=utf8&parseTime=true")
	if err != nil {
		panic(err)
	}
	logger := batchstat.NewLogger(os.Stdout, batchstat.Info)

	repo := repository.New(db, logger)
	if err := repository.EnsureSchema(db); err != nil {
		panic(err)
	}
	// seed the shipped rule table, operators may maintain their own rows instead
	if err := repo.SaveStatusRules(batchstat.DefaultRules()); err != nil {
		panic(err)
	}

	reporter, err := batchstat.NewReporter(repo)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	job, err := reporter.ResolveJob(ctx, 1)
	if err != nil {
		panic(err)
	}
	fmt.Printf("job 1: report status %v, next best action %q\n", job.ReportStatus, job.NextBestAction)

	batch, err := reporter.AggregateBatch(ctx, 1)
	if err != nil {
		panic(err)
	}
	fmt.Printf("batch 1: %v, %.2f%% complete, recommended action %q\n", batch.ReportStatus, batch.CompletionPercent, batch.RecommendedAction)
}
