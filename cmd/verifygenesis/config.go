package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/321cherish/ckb/infrastructure/config"
	"github.com/321cherish/ckb/infrastructure/logger"
	"github.com/321cherish/ckb/version"
)

const (
	defaultLogFilename    = "verifygenesis.log"
	defaultErrLogFilename = "verifygenesis_err.log"
	defaultLogLevel       = "info"
)

type configFlags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	LogDir      string `long:"logdir" description:"Directory to log output to, in addition to stdout"`
	LogLevel    string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	DumpBlock   bool   `long:"dumpblock" description:"Dump the genesis block of the selected network"`
	config.NetworkFlags
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		LogLevel: defaultLogLevel,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	err = logger.ParseAndSetLogLevels(cfg.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --loglevel")
	}

	// Subsystem levels do the filtering, so stdout takes every level
	if cfg.LogDir == "" {
		logger.InitLogStdout(logger.LevelTrace)
		return cfg, nil
	}

	logDir := filepath.Join(cfg.LogDir, cfg.NetParams().Name)
	logger.InitLog(filepath.Join(logDir, defaultLogFilename), filepath.Join(logDir, defaultErrLogFilename))
	return cfg, nil
}
