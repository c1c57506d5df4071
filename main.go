package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"implicithate/pkg"
	"implicithate/pkg/dataset"
	"implicithate/pkg/tokenize"
)

type tokenizerFlags struct {
	config tokenize.Config
	social bool
}

func (f *tokenizerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config.StandardPath, "tokenizer", "", "", "path to the tokenizer.json of the standard tokenizer")
	cmd.Flags().StringVarP(&f.config.SocialPath, "social-tokenizer", "", "", "path to the tokenizer.json of the social media tokenizer")
	cmd.Flags().IntVarP(&f.config.MaxLength, "max-length", "", tokenize.DefaultMaxLength, "length token sequences are padded or truncated to")
	cmd.Flags().BoolVarP(&f.social, "social", "", false, "encode posts with the social media tokenizer")
}

func (f *tokenizerFlags) variant() tokenize.Variant {
	if f.social {
		return tokenize.Social
	}
	return tokenize.Standard
}

func registerInspectFlags(cmd *cobra.Command, p *pkg.InspectParameters) {
	cmd.Flags().IntVarP(&p.BatchSize, "batch-size", "b", 32, "batch size")
	cmd.Flags().Int64VarP(&p.RndSeed, "random-seed", "x", 42, "random seed")
}

func Stage1Command() *cobra.Command {
	var params dataset.Stage1Parameters
	var tkFlags tokenizerFlags
	var inspectParams pkg.InspectParameters

	var cmd = &cobra.Command{
		Use:   "stage1 -i annotations.tsv --tokenizer tokenizer.json",
		Short: "Builds a stage 1 (explicit / implicit / not hate) dataset and logs a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := tokenize.NewPretrained(tkFlags.config)
			if err != nil {
				return err
			}
			params.Variant = tkFlags.variant()
			return pkg.InspectStage1(params, tk, inspectParams)
		},
	}

	cmd.Flags().StringVarP(&params.DataFile, "input", "i", "", "tab separated annotation file with post and class columns")
	cmd.Flags().BoolVarP(&params.DropExplicitHate, "drop-explicit-hate", "", false, "drop explicit_hate rows")
	cmd.Flags().BoolVarP(&params.MergeHateLabels, "merge-hate-labels", "", false, "merge explicit_hate and implicit_hate into hate")
	tkFlags.register(cmd)
	registerInspectFlags(cmd, &inspectParams)

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func Stage2Command() *cobra.Command {
	var params dataset.Stage2Parameters
	var tkFlags tokenizerFlags
	var inspectParams pkg.InspectParameters

	var cmd = &cobra.Command{
		Use:   "stage2 -i annotations.tsv --tokenizer tokenizer.json",
		Short: "Builds a stage 2 (implicit hate subtype) dataset and logs a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := tokenize.NewPretrained(tkFlags.config)
			if err != nil {
				return err
			}
			params.Variant = tkFlags.variant()
			return pkg.InspectStage2(params, tk, inspectParams)
		},
	}

	cmd.Flags().StringVarP(&params.DataFile, "input", "i", "", "tab separated annotation file with post, implicit_class and extra_implicit_class columns")
	cmd.Flags().BoolVarP(&params.DropOther, "drop-other", "", false, "drop rows whose implicit_class is other")
	tkFlags.register(cmd)
	registerInspectFlags(cmd, &inspectParams)

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

var logLevel string
var logFormat string

func RootCommand() *cobra.Command {
	root := &cobra.Command{Use: "implicithate", PersistentPreRunE: setupLogging, SilenceUsage: true}

	root.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info", "Logging level: info error or debug")
	root.PersistentFlags().StringVarP(&logFormat, "log-format", "", "pretty", "Logging format: pretty or json")

	root.AddCommand(Stage1Command())
	root.AddCommand(Stage2Command())
	return root
}

func main() {
	if err := RootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("")
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {

	switch logLevel {
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		return fmt.Errorf("invalid logging level %s", logLevel)
	}

	switch logFormat {
	case "pretty":
		setupPrettyLogging()
	case "json":
	default:
		return fmt.Errorf("invalid log format %s", logFormat)
	}
	return nil
}

func setupPrettyLogging() {
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	writer.FormatFieldValue = func(i interface{}) string {
		switch v := i.(type) {
		case json.Number:
			val, _ := v.Float64()
			return fmt.Sprintf("%.3f", val)
		default:
			return fmt.Sprintf("%s", i)
		}

	}
	log.Logger = log.Output(writer)

}
