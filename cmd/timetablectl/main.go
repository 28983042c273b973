// Command timetablectl is the CLI front end for the scheduling engine,
// grounded on russross-schedule's cobra.Command tree (root command with
// flag-carrying subcommands, package-level flag variables bound with
// cmd.Flags().*Var) but translated from that repo's log.Fatalf-on-error
// idiom into Cobra's RunE convention, so main owns the process's single
// exit point instead of subcommands calling os.Exit directly.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/dto"
	"github.com/vishwaksen/campus-scheduler/internal/engine"
	"github.com/vishwaksen/campus-scheduler/internal/export"
)

var (
	semester     int
	branch       string
	sections     []string
	algorithm    string
	debug        bool
	useFixture   bool
	inputPath    string
	outputPath   string
	outputFormat string
	timeoutFlag  time.Duration
	seedFlag     int64
	maxGenFlag   int
)

// catalogFile is the on-disk shape --input expects: everything a
// ScheduleGenerateRequest needs except the semester/branch/sections/
// algorithm/timeout flags, which come from the command line instead so
// the same catalog file can be reused across branches and semesters.
type catalogFile struct {
	Subjects       []dto.SubjectInput   `json:"subjects"`
	Faculty        []dto.FacultyInput   `json:"faculty"`
	Rooms          []dto.RoomInput      `json:"rooms"`
	Days           []string             `json:"days"`
	PeriodsPerDay  int                  `json:"periods_per_day"`
	SectionBatches map[string][]string  `json:"section_batches"`
	FixedSlots     []dto.FixedSlotInput `json:"fixed_slots"`
}

func main() {
	root := &cobra.Command{
		Use:   "timetablectl",
		Short: "Generate conflict-free weekly class timetables",
		Long:  "timetablectl builds a weekly timetable grid for a semester/branch from a subject, faculty and room catalog.",
	}

	cmdGenerate := &cobra.Command{
		Use:   "generate",
		Short: "generate a timetable and print or save the result",
		RunE:  runGenerate,
	}
	cmdGenerate.Flags().IntVar(&semester, "semester", 0, "semester number (3, 4, 5 or 6)")
	cmdGenerate.Flags().StringVar(&branch, "branch", "", "branch code (AIDS or CSDS)")
	cmdGenerate.Flags().StringSliceVar(&sections, "sections", nil, "comma-separated section names, e.g. A,B,C")
	cmdGenerate.Flags().StringVar(&algorithm, "algorithm", "hybrid", "greedy, backtracking, evolutionary or hybrid")
	cmdGenerate.Flags().BoolVar(&debug, "debug", false, "enable verbose logging")
	cmdGenerate.Flags().BoolVar(&useFixture, "test", false, "use the built-in fixture catalog instead of --input")
	cmdGenerate.Flags().StringVar(&inputPath, "input", "", "path to a catalog JSON file (required unless --test)")
	cmdGenerate.Flags().StringVar(&outputPath, "out", "", "output file path (defaults to stdout)")
	cmdGenerate.Flags().StringVar(&outputFormat, "format", "json", "json, csv or html")
	cmdGenerate.Flags().DurationVar(&timeoutFlag, "timeout", 30*time.Second, "deadline for the scheduling run")
	cmdGenerate.Flags().Int64Var(&seedFlag, "seed", 1, "random seed for the evolutionary algorithm")
	cmdGenerate.Flags().IntVar(&maxGenFlag, "max-generations", 200, "generation cap for the evolutionary algorithm")
	root.AddCommand(cmdGenerate)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// usageError marks a bad-flag/bad-input failure (exit code 2), as
// distinct from the engine failing to find a feasible schedule
// (exit code 1).
type usageError struct{ err error }

func (u *usageError) Error() string { return u.err.Error() }
func (u *usageError) Unwrap() error { return u.err }

func exitCodeFor(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return 2
	}
	if errors.Is(err, engine.ErrInput) {
		return 2
	}
	return 1
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &usageError{fmt.Errorf("unexpected arguments: %v", args)}
	}
	if !useFixture && inputPath == "" {
		return &usageError{errors.New("either --input or --test is required")}
	}
	if semester == 0 {
		return &usageError{errors.New("--semester is required")}
	}
	if branch == "" {
		return &usageError{errors.New("--branch is required")}
	}
	if len(sections) == 0 {
		return &usageError{errors.New("--sections is required")}
	}
	switch outputFormat {
	case "json", "csv", "html":
	default:
		return &usageError{fmt.Errorf("unsupported format: %s", outputFormat)}
	}

	var cat catalogFile
	if useFixture {
		cat = fixtureCatalog(sections)
	} else {
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return &usageError{fmt.Errorf("reading %s: %w", inputPath, err)}
		}
		if err := json.Unmarshal(raw, &cat); err != nil {
			return &usageError{fmt.Errorf("parsing %s: %w", inputPath, err)}
		}
	}

	req := dto.ScheduleGenerateRequest{
		Semester:       semester,
		Branch:         branch,
		Sections:       sections,
		SectionBatches: cat.SectionBatches,
		Subjects:       cat.Subjects,
		Faculty:        cat.Faculty,
		Rooms:          cat.Rooms,
		Days:           cat.Days,
		PeriodsPerDay:  cat.PeriodsPerDay,
		Algorithm:      algorithm,
		TimeoutSeconds: int(timeoutFlag / time.Second),
		Seed:           seedFlag,
		MaxGenerations: maxGenFlag,
		FixedSlots:     cat.FixedSlots,
	}

	logr, err := buildLogger(debug)
	if err != nil {
		return &usageError{err}
	}
	defer logr.Sync() //nolint:errcheck

	engineReq := req.ToEngineRequest()
	result, err := engine.Schedule(cmd.Context(), engineReq, logr)
	if err != nil {
		return err
	}

	sectionList := make([]catalog.Section, 0, len(engineReq.Sections))
	for _, name := range engineReq.Sections {
		sectionList = append(sectionList, catalog.Section{Name: name, Batches: engineReq.SectionBatches[name]})
	}

	doc := export.Build(result.Grid, engineReq.Subjects, sectionList, engineReq.Config.Days, engineReq.Config.PeriodsPerDay, export.Metadata{
		Semester:    semester,
		Branch:      branch,
		Sections:    sections,
		GeneratedAt: time.Now().UTC(),
		Algorithm:   string(result.Statistics.Algorithm),
	}, result.Validation)

	var payload []byte
	switch outputFormat {
	case "csv":
		payload, err = export.CSV(doc)
	case "html":
		payload, err = export.HTML(doc)
	default:
		payload, err = export.JSON(doc)
	}
	if err != nil {
		return fmt.Errorf("rendering %s output: %w", outputFormat, err)
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(outputPath, payload, 0o644)
}
