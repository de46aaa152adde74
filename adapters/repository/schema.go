package repository

import (
	"database/sql"

	"github.com/chararch/batchstat"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS batch (
		batch_id      BIGINT      NOT NULL AUTO_INCREMENT,
		step_id       BIGINT      NOT NULL,
		status        VARCHAR(32) NOT NULL,
		create_time   DATETIME    NOT NULL,
		submit_time   DATETIME    NULL,
		complete_time DATETIME    NULL,
		last_updated  DATETIME    NOT NULL,
		version       BIGINT      NOT NULL DEFAULT 0,
		PRIMARY KEY (batch_id),
		KEY idx_batch_step (step_id)
	)`,
	`CREATE TABLE IF NOT EXISTS configuration (
		configuration_id BIGINT       NOT NULL AUTO_INCREMENT,
		name             VARCHAR(128) NOT NULL,
		settings         TEXT         NOT NULL,
		footprint        CHAR(32)     NOT NULL,
		create_time      DATETIME     NOT NULL,
		PRIMARY KEY (configuration_id),
		KEY idx_configuration_footprint (footprint)
	)`,
	`CREATE TABLE IF NOT EXISTS job_configuration (
		job_configuration_id          BIGINT       NOT NULL AUTO_INCREMENT,
		batch_id                      BIGINT       NOT NULL,
		configuration_id              BIGINT       NOT NULL,
		skipped                       TINYINT(1)   NOT NULL DEFAULT 0,
		overridden                    TINYINT(1)   NOT NULL DEFAULT 0,
		override_reason               VARCHAR(512) NULL,
		override_job_configuration_id BIGINT       NULL,
		create_time                   DATETIME     NOT NULL,
		last_updated                  DATETIME     NOT NULL,
		PRIMARY KEY (job_configuration_id),
		KEY idx_job_configuration_batch (batch_id)
	)`,
	`CREATE TABLE IF NOT EXISTS job (
		job_id               BIGINT      NOT NULL AUTO_INCREMENT,
		job_configuration_id BIGINT      NOT NULL,
		parent_job_id        BIGINT      NULL,
		status               VARCHAR(32) NOT NULL,
		skipped              TINYINT(1)  NOT NULL DEFAULT 0,
		create_time          DATETIME    NOT NULL,
		submit_time          DATETIME    NULL,
		complete_time        DATETIME    NULL,
		last_updated         DATETIME    NOT NULL,
		last_error           TEXT        NULL,
		version              BIGINT      NOT NULL DEFAULT 0,
		PRIMARY KEY (job_id),
		KEY idx_job_configuration (job_configuration_id)
	)`,
	`CREATE TABLE IF NOT EXISTS job_status_rule (
		skipped          TINYINT(1)   NOT NULL,
		status           VARCHAR(32)  NOT NULL,
		report_status    VARCHAR(32)  NOT NULL,
		age_calculation  VARCHAR(64)  NOT NULL,
		next_best_action VARCHAR(128) NOT NULL,
		is_terminal      TINYINT(1)   NOT NULL,
		PRIMARY KEY (skipped, status)
	)`,
}

// EnsureSchema create the batchstat tables if they do not exist
func EnsureSchema(db *sql.DB) batchstat.BatchError {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return batchstat.NewBatchError(batchstat.ErrCodeDbFail, "create batchstat schema failed", err)
		}
	}
	return nil
}
