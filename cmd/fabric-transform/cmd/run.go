package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkanduri1/fabric-transform/internal/core/config"
	"github.com/pkanduri1/fabric-transform/internal/templates"
	"github.com/pkanduri1/fabric-transform/internal/transform"
	"github.com/pkanduri1/fabric-transform/internal/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Apply a mapping template to an input file",
	Long:  `Reads delimited records (header row names the fields), evaluates every field mapping per record, and writes fixed-width or delimited output rows.`,
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("template", "", "mapping template file (YAML)")
	runCmd.Flags().String("input", "", "input file path, - for stdin")
	runCmd.Flags().String("output", "-", "output file path, - for stdout")
	runCmd.Flags().String("output-mode", "", "output mode (fixed, delimited)")
	runCmd.Flags().String("delimiter", "", "input field delimiter")
	runCmd.MarkFlagRequired("template")
	runCmd.MarkFlagRequired("input")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("output-mode") {
		cfg.OutputMode, _ = cmd.Flags().GetString("output-mode")
	}
	if cmd.Flags().Changed("delimiter") {
		cfg.InputDelimiter, _ = cmd.Flags().GetString("delimiter")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	templatePath, _ := cmd.Flags().GetString("template")
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	tmpl, err := templates.LoadFile(templatePath)
	if err != nil {
		return err
	}
	compiled, err := transform.Compile(tmpl)
	if err != nil {
		return fmt.Errorf("failed to compile template: %w", err)
	}
	for _, d := range compiled.Diagnostics {
		log.Printf("template diagnostic: %s", d)
	}
	engine := transform.NewEngine(compiled)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	jobID := types.NewJobID()
	count, err := process(engine, cfg, in, out)
	if err != nil {
		return err
	}
	log.Printf("job %s: template %q, %d records transformed", jobID, compiled.Name, count)
	return nil
}

// process drives the per-record loop: read delimited record, apply all
// mappings, assemble one output row. Batch-level parallelism and retry
// stay with the operator invoking the runner.
func process(engine *transform.Engine, cfg *config.RunnerConfig, in io.Reader, out io.Writer) (int, error) {
	reader := csv.NewReader(in)
	reader.Comma = []rune(cfg.InputDelimiter)[0]
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > cfg.MaxRecordFields {
		return 0, fmt.Errorf("input has %d fields, limit is %d", len(header), cfg.MaxRecordFields)
	}

	w := bufio.NewWriter(out)
	count := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read record %d: %w", count+1, err)
		}

		rec := make(types.Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			// Cells equal to the null token stay absent so default-value
			// fallback applies.
			if row[i] == cfg.NullToken {
				continue
			}
			rec[name] = row[i]
		}

		values := engine.Apply(rec)
		var line string
		if cfg.OutputMode == config.OutputDelimited {
			line = strings.Join(values, cfg.OutputDelimiter)
		} else {
			line = strings.Join(values, "")
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return count, fmt.Errorf("failed to write record %d: %w", count+1, err)
		}
		count++
	}

	if err := w.Flush(); err != nil {
		return count, err
	}
	return count, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
