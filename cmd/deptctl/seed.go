package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/spec-kit/department-app/internal/events"
	"github.com/spec-kit/department-app/internal/persistence"
	"github.com/spec-kit/department-app/internal/repository"
	"github.com/spec-kit/department-app/internal/service"
	"github.com/spec-kit/department-app/internal/worker"
)

type seedEmployee struct {
	name      string
	position  string
	salary    float64
	birthdate string
}

type seedDepartment struct {
	name      string
	phone     string
	employees []seedEmployee
}

var sampleData = []seedDepartment{
	{
		name:  "Engineering",
		phone: "+381111111111",
		employees: []seedEmployee{
			{"Ana Petrovic", "Backend developer", 2400, "1990-04-12"},
			{"Marko Jovanovic", "Team lead", 3100, "1985-09-30"},
			{"Ivana Nikolic", "QA engineer", 1900, "1994-01-21"},
		},
	},
	{
		name:  "Finance",
		phone: "+382222222222",
		employees: []seedEmployee{
			{"Jelena Ilic", "Accountant", 1700, "1988-06-02"},
			{"Nikola Markovic", "Controller", 2300, "1979-11-15"},
		},
	},
	{
		name:  "Support",
		phone: "3333333333",
	},
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample departments and employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			db, err := rt.openDatabase(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := persistence.MigrateUp(db, rt.logger); err != nil {
				return err
			}

			redisConn := persistence.NewRedis(ctx, rt.cfg.Redis, rt.logger)
			defer redisConn.Close()
			var redisClient *redis.Client
			if redisConn != nil {
				redisClient = redisConn.Client
			}

			store := repository.NewStore(db.DB())
			dispatcher := events.NewInMemoryDispatcher()
			worker.StartChangeFeed(service.NewChangeFeedService(dispatcher, rt.logger, redisClient, rt.cfg.Redis.Channel))

			departments, employees, err := seed(ctx,
				service.NewDepartmentService(store, dispatcher, rt.logger),
				service.NewEmployeeService(store, dispatcher, rt.logger),
				sampleData)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d departments and %d employees\n", departments, employees)
			return nil
		},
	}
}

func seed(ctx context.Context, departments *service.DepartmentService, employees *service.EmployeeService, data []seedDepartment) (int, int, error) {
	var deptCount, empCount int
	for _, d := range data {
		dept, err := departments.Create(ctx, service.CreateDepartmentInput{Name: d.name, PhoneNumber: d.phone})
		if err != nil {
			return deptCount, empCount, fmt.Errorf("seed department %s: %w", d.name, err)
		}
		deptCount++

		for _, e := range d.employees {
			birthdate, err := time.Parse(time.DateOnly, e.birthdate)
			if err != nil {
				return deptCount, empCount, err
			}
			_, err = employees.Create(ctx, service.CreateEmployeeInput{
				Name:         e.name,
				Position:     e.position,
				Salary:       e.salary,
				Birthdate:    birthdate,
				DepartmentID: dept.ID,
			})
			if err != nil {
				return deptCount, empCount, fmt.Errorf("seed employee %s: %w", e.name, err)
			}
			empCount++
		}
	}
	return deptCount, empCount, nil
}
