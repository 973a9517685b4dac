package main

import (
	"io/ioutil"
	"os"
	"strings"

	"github.com/coreos/pkg/capnslog"
	"github.com/pkg/errors"
	"github.com/pontaoski/tinyc/backend"
	"github.com/pontaoski/tinyc/codegen"
	"gopkg.in/yaml.v2"
)

const moduleInfoFile = "tinyc.yaml"

type moduleInfo struct {
	Module   string   `yaml:"module"`
	Passes   []string `yaml:"passes"`
	Verify   *bool    `yaml:"verify,omitempty"`
	LogLevel string   `yaml:"log-level,omitempty"`
}

func defaultModuleInfo(name string) moduleInfo {
	verify := true
	return moduleInfo{
		Module:   name,
		Passes:   backend.DefaultPasses,
		Verify:   &verify,
		LogLevel: "INFO",
	}
}

// readModuleInfo loads path. A missing file yields the defaults for a
// module named after the working directory.
func readModuleInfo(path string) (moduleInfo, error) {
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		wd, _ := os.Getwd()
		parts := strings.Split(wd, string(os.PathSeparator))
		return defaultModuleInfo(parts[len(parts)-1]), nil
	}
	if err != nil {
		return moduleInfo{}, errors.Wrapf(err, "reading %s", path)
	}

	var doc moduleInfo
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return moduleInfo{}, errors.Wrapf(err, "reading %s", path)
	}
	return doc, nil
}

func writeModuleInfo(path string, doc moduleInfo) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	return errors.Wrapf(ioutil.WriteFile(path, out, 0644), "creating %s", path)
}

func (m moduleInfo) verify() bool {
	return m.Verify == nil || *m.Verify
}

// options turns the module info into compiler options. A file without a
// passes key runs the default pipeline; an empty list runs none.
func (m moduleInfo) options() codegen.Options {
	return codegen.Options{
		Module:     m.Module,
		Passes:     m.Passes,
		SkipVerify: !m.verify(),
	}
}

func setupLogging(level string) error {
	capnslog.SetFormatter(capnslog.NewPrettyFormatter(os.Stderr, false))
	if level == "" {
		level = "INFO"
	}
	lvl, err := capnslog.ParseLevel(strings.ToUpper(level))
	if err != nil {
		return errors.Wrapf(err, "log level %q", level)
	}
	capnslog.SetGlobalLogLevel(lvl)
	return nil
}
