package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Layr-Labs/merkletree-go/pkg/config"
	"github.com/Layr-Labs/merkletree-go/pkg/logger"
	"github.com/Layr-Labs/merkletree-go/pkg/merkle"
	"github.com/Layr-Labs/merkletree-go/pkg/types"
	"github.com/Layr-Labs/merkletree-go/pkg/util"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	recordFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "File with one record per line, or - for stdin",
		},
		&cli.StringSliceFlag{
			Name:    "record",
			Aliases: []string{"r"},
			Usage:   "Record given inline (repeatable); used instead of --input",
		},
	}
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file for the JSON report (default: stdout)",
	}

	return &cli.App{
		Name:  "merkletree",
		Usage: "Build merkle trees over records and produce or check inclusion proofs",
		Description: `Hashes an ordered list of records into a binary merkle tree.

This tool can:
- Build a tree and print every layer and the root
- Generate an inclusion proof for a single record
- Verify a proof against a root without the original records`,
		Version:                   "1.0.0",
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "hash",
				Usage:   fmt.Sprintf("Hash algorithm: %s", config.GetSupportedHashAlgorithmsString()),
				Value:   merkle.DefaultHashAlgorithm.String(),
				EnvVars: []string{config.EnvMerkleHashAlgorithm},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Goroutines used to hash large layers",
				Value:   1,
				EnvVars: []string{config.EnvMerkleWorkers},
			},
			&cli.BoolFlag{
				Name:    "skip-blank",
				Usage:   "Drop records that are empty or only whitespace",
				Value:   true,
				EnvVars: []string{config.EnvMerkleSkipBlankRecords},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvMerkleVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build a tree and print its layers and root",
				Flags:  append(append([]cli.Flag{}, recordFlags...), outputFlag),
				Action: buildCommand,
			},
			{
				Name:  "prove",
				Usage: "Generate an inclusion proof for one record",
				Flags: append(append([]cli.Flag{}, recordFlags...),
					&cli.IntFlag{
						Name:     "index",
						Usage:    "Zero based index of the record to prove",
						Required: true,
					},
					outputFlag,
				),
				Action: proveCommand,
			},
			{
				Name:  "verify",
				Usage: "Verify an inclusion proof against a root",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "proof",
						Usage: "Proof report produced by prove, or - for stdin",
					},
					&cli.StringFlag{
						Name:  "leaf",
						Usage: "Leaf digest (hex); used when --proof is not given",
					},
					&cli.StringFlag{
						Name:  "record",
						Usage: "Raw record whose digest is the leaf; alternative to --leaf",
					},
					&cli.StringFlag{
						Name:  "root",
						Usage: "Expected root digest (hex); overrides the root in --proof",
					},
					&cli.StringFlag{
						Name:  "steps",
						Usage: `Proof steps as JSON, e.g. [{"side":"left","digest":"..."}]`,
					},
					outputFlag,
				},
				Action: verifyCommand,
			},
		},
	}
}

// loadConfig builds and validates the tree configuration from global flags
func loadConfig(c *cli.Context) (*config.TreeConfig, *zap.Logger, error) {
	cfg := &config.TreeConfig{
		HashAlgorithm:    merkle.HashAlgorithm(c.String("hash")),
		Workers:          c.Int("workers"),
		SkipBlankRecords: c.Bool("skip-blank"),
		Verbose:          c.Bool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Verbose})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, l, nil
}

func loadRecords(c *cli.Context, cfg *config.TreeConfig) ([][]byte, error) {
	if inline := c.StringSlice("record"); len(inline) > 0 {
		records := make([][]byte, 0, len(inline))
		for _, r := range inline {
			records = append(records, util.SplitRecords(r, cfg.SkipBlankRecords)...)
		}
		return records, nil
	}

	switch input := c.String("input"); input {
	case "":
		return nil, errors.New("either --input or --record is required")
	case "-":
		return util.ReadRecords(c.App.Reader, cfg.SkipBlankRecords)
	default:
		return util.ReadRecordsFile(input, cfg.SkipBlankRecords)
	}
}

func buildTree(c *cli.Context) (*merkle.MerkleTree, *zap.Logger, error) {
	cfg, l, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}

	records, err := loadRecords(c, cfg)
	if err != nil {
		return nil, nil, err
	}

	opts, err := cfg.TreeOptions(l)
	if err != nil {
		return nil, nil, err
	}
	tree := merkle.BuildMerkleTree(records, opts...)
	l.Sugar().Infow("Built merkle tree",
		"hash_algorithm", cfg.HashAlgorithm,
		"leaves", tree.LeafCount(),
		"layers", tree.LayerCount(),
		"root", tree.Root(),
	)
	return tree, l, nil
}

// buildCommand handles the build subcommand
func buildCommand(c *cli.Context) error {
	tree, l, err := buildTree(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	if tree.IsEmpty() {
		l.Sugar().Warnw("No records to hash, tree is empty")
	}
	return writeJSON(c, types.NewTreeReport(tree))
}

// proveCommand handles the prove subcommand
func proveCommand(c *cli.Context) error {
	tree, l, err := buildTree(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	report, err := types.NewProofReport(tree, c.Int("index"))
	if err != nil {
		return fmt.Errorf("failed to generate proof: %w", err)
	}
	l.Sugar().Debugw("Generated proof", "tree_id", report.TreeID, "leaf_index", report.LeafIndex, "steps", len(report.Proof))
	return writeJSON(c, report)
}

// verifyCommand handles the verify subcommand
func verifyCommand(c *cli.Context) error {
	cfg, l, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	report, err := loadProofReport(c, cfg)
	if err != nil {
		return err
	}

	result, err := report.Verify()
	if err != nil {
		return fmt.Errorf("failed to verify proof: %w", err)
	}
	if err := writeJSON(c, result); err != nil {
		return err
	}

	if !result.Valid {
		l.Sugar().Warnw("Proof is invalid", "leaf", result.Leaf, "root", result.Root)
		return cli.Exit("proof is invalid", 1)
	}
	l.Sugar().Infow("Proof is valid", "leaf", result.Leaf, "root", result.Root, "steps", result.Steps)
	return nil
}

// loadProofReport reads a proof report from --proof, or assembles one from
// --leaf/--record, --root and --steps.
func loadProofReport(c *cli.Context, cfg *config.TreeConfig) (*types.ProofReport, error) {
	report := &types.ProofReport{HashAlgorithm: cfg.HashAlgorithm}

	if path := c.String("proof"); path != "" {
		var r io.Reader = c.App.Reader
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return nil, errors.Wrap(err, "failed to open proof file")
			}
			defer func() { _ = f.Close() }()
			r = f
		}
		if err := json.NewDecoder(r).Decode(report); err != nil {
			return nil, errors.Wrap(err, "failed to decode proof report")
		}
	} else {
		if steps := c.String("steps"); steps != "" {
			if err := json.Unmarshal([]byte(steps), &report.Proof); err != nil {
				return nil, errors.Wrap(err, "failed to decode proof steps")
			}
		}
		switch {
		case c.IsSet("leaf"):
			leaf, err := merkle.ParseDigest(c.String("leaf"))
			if err != nil {
				return nil, fmt.Errorf("invalid leaf: %w", err)
			}
			report.Leaf = leaf
		case c.IsSet("record"):
			h, err := cfg.Hasher()
			if err != nil {
				return nil, err
			}
			report.Leaf = merkle.DigestOf(h, []byte(c.String("record")))
		default:
			return nil, errors.New("either --proof, --leaf or --record is required")
		}
	}

	if c.IsSet("root") {
		root, err := merkle.ParseDigest(c.String("root"))
		if err != nil {
			return nil, fmt.Errorf("invalid root: %w", err)
		}
		report.Root = root
	}
	if report.Root == merkle.EmptyRoot {
		return nil, errors.New("a root is required")
	}
	return report, nil
}

func writeJSON(c *cli.Context, v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode report")
	}
	encoded = append(encoded, '\n')

	if output := c.String("output"); output != "" {
		if err := os.WriteFile(output, encoded, 0644); err != nil {
			return errors.Wrap(err, "failed to write to file")
		}
		return nil
	}
	_, err = c.App.Writer.Write(encoded)
	return err
}
