// Package admin implements the offline administration CLI: seeding the
// class catalog and creating accounts without going through the HTTP API.
package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"studylink/internal/common"
	"studylink/internal/emailx"
	"studylink/internal/server/auth"
	"studylink/internal/server/models"
	"studylink/internal/server/repositories/repomanager"
)

const usage = `usage: studylink-admin <command> [flags]

commands:
  seed-classes  -d <dsn> -f <catalog.json>   upsert classes from a JSON file
  create-user   -d <dsn> -e <email>          create an account (prompts for password)
`

// Run dispatches a subcommand. args is os.Args[1:].
func Run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "seed-classes":
		return runSeedClasses(ctx, args[1:], out)
	case "create-user":
		return runCreateUser(ctx, args[1:], out)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func openDB(ctx context.Context, dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}
	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}
	return db, rm, nil
}

// classSeed is one catalog entry in the seed file.
type classSeed struct {
	Subject       string `json:"subject"`
	CatalogNumber string `json:"catalogNumber"`
	Title         string `json:"title"`
	CourseCode    string `json:"courseCode"`
}

// parseClassFile decodes and validates a seed file. CourseCode defaults to
// the compact subject+catalog concatenation ("CS 370" -> "CS370").
func parseClassFile(r io.Reader) ([]*models.Class, error) {
	var seeds []classSeed
	if err := json.NewDecoder(r).Decode(&seeds); err != nil {
		return nil, fmt.Errorf("invalid catalog file: %w", err)
	}

	list := make([]*models.Class, 0, len(seeds))
	for i, s := range seeds {
		subject := strings.TrimSpace(s.Subject)
		catalog := strings.TrimSpace(s.CatalogNumber)
		if subject == "" || catalog == "" {
			return nil, fmt.Errorf("entry %d: subject and catalogNumber are required", i)
		}
		code := strings.TrimSpace(s.CourseCode)
		if code == "" {
			code = strings.ToUpper(strings.ReplaceAll(subject+catalog, " ", ""))
		}
		list = append(list, &models.Class{
			Subject:       subject,
			CatalogNumber: catalog,
			Title:         strings.TrimSpace(s.Title),
			CourseCode:    code,
		})
	}
	return list, nil
}

func runSeedClasses(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("seed-classes", flag.ContinueOnError)
	dsn := fs.String("d", "", "PostgreSQL DSN")
	file := fs.String("f", "", "catalog JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dsn == "" || *file == "" {
		return errors.New("both -d and -f are required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("error opening catalog file: %w", err)
	}
	defer f.Close()

	list, err := parseClassFile(f)
	if err != nil {
		return err
	}

	db, rm, err := openDB(ctx, *dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := rm.Classes(db)
	for _, c := range list {
		if err := repo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("error upserting %s %s: %w", c.Subject, c.CatalogNumber, err)
		}
	}

	fmt.Fprintf(out, "seeded %d classes\n", len(list))
	return nil
}

func runCreateUser(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	dsn := fs.String("d", "", "PostgreSQL DSN")
	email := fs.String("e", "", "account email (.edu)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dsn == "" || *email == "" {
		return errors.New("both -d and -e are required")
	}

	normalized := emailx.Normalize(*email)
	if !emailx.IsValidEdu(normalized) {
		return errors.New("a valid .edu email address is required")
	}

	password, err := promptNewPassword(out)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	db, rm, err := openDB(ctx, *dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := rm.Users(db).Create(ctx, &models.User{Email: normalized, PasswordHash: hash}); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return fmt.Errorf("an account for %s already exists", normalized)
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Fprintf(out, "created account %s\n", normalized)
	return nil
}
