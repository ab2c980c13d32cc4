package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
			CREATE TYPE report_status AS ENUM ('PENDING', 'REPORTED', 'INSPECTED', 'IN_PROGRESS', 'RESOLVED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'drone_status') THEN
			CREATE TYPE drone_status AS ENUM ('NONE', 'ASSIGNED', 'IN_PROGRESS', 'COMPLETE');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_severity') THEN
			CREATE TYPE report_severity AS ENUM ('MINOR', 'MODERATE', 'SEVERE', 'CRITICAL');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'notification_status') THEN
			CREATE TYPE notification_status AS ENUM ('PENDING', 'SENT', 'FAILED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		reporter_id UUID,
		location TEXT NOT NULL,
		coord_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
		coord_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
		pothole_count INTEGER NOT NULL DEFAULT 0,
		total_area_m2 DOUBLE PRECISION NOT NULL DEFAULT 0,
		confidence_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		severity report_severity NOT NULL,
		material VARCHAR(64) NOT NULL,
		bags_required INTEGER NOT NULL DEFAULT 0,
		estimated_cost_inr DOUBLE PRECISION NOT NULL DEFAULT 0,
		status report_status NOT NULL DEFAULT 'PENDING',
		drone_status drone_status NOT NULL DEFAULT 'NONE',
		audit JSONB NOT NULL DEFAULT '[]',
		image_url TEXT,
		processed_image_url TEXT,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_severity ON reports (severity);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_reporter_id ON reports (reporter_id);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		event VARCHAR(64) NOT NULL,
		channel VARCHAR(32) NOT NULL,
		recipient TEXT NOT NULL,
		message TEXT NOT NULL,
		status notification_status NOT NULL DEFAULT 'PENDING',
		attempts INTEGER NOT NULL DEFAULT 0,
		provider_id TEXT,
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_report_id ON notifications (report_id);`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications (status);`,
	`CREATE OR REPLACE FUNCTION set_row_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_reports_updated_at') THEN
			CREATE TRIGGER trg_reports_updated_at
				BEFORE UPDATE ON reports
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_notifications_updated_at') THEN
			CREATE TRIGGER trg_notifications_updated_at
				BEFORE UPDATE ON notifications
				FOR EACH ROW
				EXECUTE PROCEDURE set_row_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
