package clatd

import (
	"go.aporeto.io/clatd/constants"
	"go.aporeto.io/clatd/internal/config"
	"go.aporeto.io/clatd/internal/datapath"
	"go.aporeto.io/clatd/internal/dns64"
	"go.aporeto.io/clatd/internal/privilege"
)

// options holds the injectable collaborators of a Daemon.
type options struct {
	translator  datapath.Translator
	discoverer  config.PrefixDiscoverer
	configPath  string
	credentials privilege.Credentials
}

func defaultOptions(uplink string) *options {
	return &options{
		translator:  datapath.NewDiscardTranslator(),
		discoverer:  dns64.NewResolver(uplink),
		configPath:  constants.ConfigPath,
		credentials: privilege.DefaultCredentials(),
	}
}

// Option customizes a Daemon.
type Option func(*options)

// OptionTranslator injects the packet translator run by the event loop.
func OptionTranslator(t datapath.Translator) Option {
	return func(o *options) {
		o.translator = t
	}
}

// OptionPrefixDiscoverer overrides how the translation prefix is discovered.
func OptionPrefixDiscoverer(d config.PrefixDiscoverer) Option {
	return func(o *options) {
		o.discoverer = d
	}
}

// OptionConfigPath overrides the configuration file location.
func OptionConfigPath(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// OptionCredentials overrides the service identity assumed after dropping
// root.
func OptionCredentials(c privilege.Credentials) Option {
	return func(o *options) {
		o.credentials = c
	}
}
