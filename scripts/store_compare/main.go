package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/internal/repository"
	"github.com/noah-isme/gpa-tracker-api/pkg/config"
)

type snapshot struct {
	Driver   string
	Record   *models.AcademicRecord
	Duration time.Duration
	Error    error
}

type difference struct {
	Field string
	Left  string
	Right string
}

// store_compare loads the academic record from two store drivers and reports
// differences. With -copy it writes the left record into the right store,
// which is how a deployment moves between drivers.
func main() {
	var (
		leftDriver  string
		rightDriver string
		copyRecord  bool
		timeout     time.Duration
	)
	flag.StringVar(&leftDriver, "left", config.StoreDriverFile, "Source store driver (file, sqlite, postgres, redis)")
	flag.StringVar(&rightDriver, "right", config.StoreDriverSQLite, "Target store driver")
	flag.BoolVar(&copyRecord, "copy", false, "Copy the left record into the right store before comparing")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	left := load(ctx, cfg, leftDriver)
	if copyRecord && left.Error == nil && left.Record != nil {
		if err := save(ctx, cfg, rightDriver, left.Record); err != nil {
			log.Fatalf("copy to %s failed: %v", rightDriver, err)
		}
		fmt.Printf("Copied record from %s to %s\n", leftDriver, rightDriver)
	}
	right := load(ctx, cfg, rightDriver)

	diffs := compareRecords(left.Record, right.Record)
	printReport(left, right, diffs)
	if left.Error != nil || right.Error != nil || len(diffs) > 0 {
		os.Exit(1)
	}
}

func withDriver(cfg *config.Config, driver string) *config.Config {
	clone := *cfg
	clone.Store.Driver = driver
	return &clone
}

func load(ctx context.Context, cfg *config.Config, driver string) snapshot {
	snap := snapshot{Driver: driver}
	store, closer, err := repository.OpenRecordStore(ctx, withDriver(cfg, driver), nil)
	if err != nil {
		snap.Error = err
		return snap
	}
	defer closer() //nolint:errcheck
	start := time.Now()
	snap.Record, snap.Error = store.Load(ctx)
	snap.Duration = time.Since(start)
	return snap
}

func save(ctx context.Context, cfg *config.Config, driver string, record *models.AcademicRecord) error {
	store, closer, err := repository.OpenRecordStore(ctx, withDriver(cfg, driver), nil)
	if err != nil {
		return err
	}
	defer closer() //nolint:errcheck
	return store.Save(ctx, record)
}

func compareRecords(left, right *models.AcademicRecord) []difference {
	if left == nil || right == nil {
		if left == nil && right == nil {
			return nil
		}
		return []difference{{Field: "record", Left: presence(left), Right: presence(right)}}
	}
	var diffs []difference
	add := func(field, l, r string) {
		if l != r {
			diffs = append(diffs, difference{Field: field, Left: l, Right: r})
		}
	}
	add("university", left.University, right.University)
	add("gradingType", string(left.GradingType), string(right.GradingType))
	add("degreeType", left.DegreeType, right.DegreeType)
	add("major", left.Major, right.Major)
	add("cgpa", fmt.Sprint(left.CGPA), fmt.Sprint(right.CGPA))
	add("semesters", fmt.Sprint(len(left.Semesters)), fmt.Sprint(len(right.Semesters)))

	for _, sem := range left.Semesters {
		idx := right.FindSemester(sem.ID)
		if idx < 0 {
			add(fmt.Sprintf("semester[%d]", sem.ID), "present", "missing")
			continue
		}
		other := right.Semesters[idx]
		add(fmt.Sprintf("semester[%d].sgpa", sem.ID), fmt.Sprint(sem.SGPA), fmt.Sprint(other.SGPA))
		add(fmt.Sprintf("semester[%d].subjects", sem.ID), fmt.Sprint(sem.Subjects), fmt.Sprint(other.Subjects))
		add(fmt.Sprintf("semester[%d].date", sem.ID), sem.Date, other.Date)
	}
	return diffs
}

func presence(record *models.AcademicRecord) string {
	if record == nil {
		return "absent"
	}
	return "present"
}

func printReport(left, right snapshot, diffs []difference) {
	fmt.Println("Store Compare Report")
	fmt.Println("====================")
	for _, snap := range []snapshot{left, right} {
		status := "OK"
		if snap.Error != nil {
			status = "ERROR"
		}
		fmt.Printf("[%s] %s load (%s) record %s\n", status, snap.Driver, snap.Duration, presence(snap.Record))
		if snap.Error != nil {
			fmt.Printf("  Error: %v\n", snap.Error)
		}
	}
	for _, d := range diffs {
		fmt.Printf("  DIFF %s: %s != %s\n", d.Field, d.Left, d.Right)
	}
	fmt.Printf("Differences: %d\n", len(diffs))
}
