package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config file keys recognized under the scan section.
const (
	cfgScanTimeout     = "scan.timeout"
	cfgScanDNSTimeout  = "scan.dns_timeout"
	cfgScanNameservers = "scan.nameservers"
	cfgScanSelectors   = "scan.dkim_selectors"
	cfgScanRulesFile   = "scan.rules"
	cfgScanConcurrency = "scan.concurrency"
	cfgScanRateLimit   = "scan.rate"
	cfgExportDir       = "export_dir"
)

// applyScanConfig fills scan options from the config file for every flag the
// user did not set explicitly. Flags always win over config values.
func applyScanConfig(flags *pflag.FlagSet) {
	if !flags.Changed("timeout") && viper.IsSet(cfgScanTimeout) {
		scanOpts.TimeoutSecs = viper.GetInt(cfgScanTimeout)
	}
	if !flags.Changed("dns-timeout") && viper.IsSet(cfgScanDNSTimeout) {
		scanOpts.DNSTimeoutSecs = viper.GetInt(cfgScanDNSTimeout)
	}
	if !flags.Changed("nameservers") && viper.IsSet(cfgScanNameservers) {
		scanOpts.Nameservers = viper.GetStringSlice(cfgScanNameservers)
	}
	if !flags.Changed("dkim-selectors") && viper.IsSet(cfgScanSelectors) {
		scanOpts.Selectors = viper.GetStringSlice(cfgScanSelectors)
	}
	if !flags.Changed("rules") && viper.IsSet(cfgScanRulesFile) {
		scanOpts.RulesFile = viper.GetString(cfgScanRulesFile)
	}
	if !flags.Changed("concurrency") && viper.IsSet(cfgScanConcurrency) {
		scanOpts.Concurrency = viper.GetInt(cfgScanConcurrency)
	}
	if !flags.Changed("rate") && viper.IsSet(cfgScanRateLimit) {
		scanOpts.RateLimit = viper.GetInt(cfgScanRateLimit)
	}
	if !flags.Changed("export-dir") && viper.IsSet(cfgExportDir) {
		scanOpts.ExportDir = viper.GetString(cfgExportDir)
	}
}
