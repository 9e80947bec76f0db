/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"gofloorplan/internal/config"
	"gofloorplan/internal/crash"
	"gofloorplan/internal/editor"
	applog "gofloorplan/internal/log"
	"gofloorplan/internal/replay"
	"gofloorplan/internal/version"
)

// envConfigFile points the CLI at a config file other than the per-user one.
const envConfigFile = "FLOORPLAN_CONFIG"

func usage() {
	fmt.Println("gofloorplan: floor plan drafting engine")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gofloorplan version|-v|--version       Show version")
	fmt.Println("  gofloorplan config path                 Print the config file location")
	fmt.Println("  gofloorplan config show                 Print the effective config")
	fmt.Println("  gofloorplan config validate <file>      Check a config file against the schema")
	fmt.Println("  gofloorplan config init [<file>]        Write the default config")
	fmt.Println("  gofloorplan replay <script.yaml>        Run an editing script and print a summary")
}

func loadConfig() (config.Config, error) {
	if p := os.Getenv(envConfigFile); p != "" {
		return config.LoadFile(p)
	}
	return config.Load()
}

func logOptions(cfg config.Config) applog.Options {
	return applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	}
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	_ = applog.Close()
	os.Exit(1)
}

func main() {
	// bootstrap logging from the environment until the config is read
	applog.Init(applog.FromEnv())
	cfg, cfgErr := loadConfig()
	applog.Init(logOptions(cfg))
	defer func() { _ = applog.Close() }()

	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config not loaded, using defaults", slog.Any("err", cfgErr))
	}

	session := editor.NewSession(editor.SettingsFromConfig(cfg), nil)
	defer crash.Recover(session)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}
	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "config":
		runConfig(l, cfg, args[2:])
	case "replay":
		if len(args) < 3 {
			fmt.Println("replay requires <script.yaml>")
			usage()
			os.Exit(2)
		}
		runReplay(l, session, args[2])
	default:
		usage()
		os.Exit(2)
	}
}

func runConfig(l *slog.Logger, cfg config.Config, args []string) {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "path":
		p, err := config.ConfigPath()
		if err != nil {
			fail(l, "config path", err)
		}
		fmt.Println(p)
	case "show":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail(l, "marshal config", err)
		}
		fmt.Print(string(data))
		for _, key := range config.OverrideKeys() {
			if env, ok := config.EnvOverrideFor(key); ok {
				fmt.Printf("# %s set by %s\n", key, env)
			}
		}
	case "validate":
		if len(args) < 2 {
			fmt.Println("config validate requires <file>")
			os.Exit(2)
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			fail(l, "read config", err)
		}
		if err := config.Validate(data); err != nil {
			if errors.Is(err, config.ErrInvalid) {
				l.Info("config invalid", slog.String("path", args[1]))
			}
			fail(l, "validate config", err)
		}
		fmt.Println("ok")
	case "init":
		path := ""
		if len(args) > 1 {
			path = args[1]
		}
		if err := config.Save(config.Defaults(), path); err != nil {
			fail(l, "write config", err)
		}
		fmt.Println("Wrote default config.")
	default:
		usage()
		os.Exit(2)
	}
}

func runReplay(l *slog.Logger, session *editor.Session, path string) {
	l.Info("replay", slog.String("script", path))
	sc, err := replay.Load(path)
	if err != nil {
		fail(l, "load script", err)
	}
	r := replay.NewRunner(session, os.Stdout)
	sum, err := r.Run(sc)
	fmt.Println()
	sum.Print(os.Stdout)
	if err != nil {
		fail(l, "replay failed", err)
	}
}
