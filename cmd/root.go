package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string
var logger *zap.SugaredLogger
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vanguard",
	Short: "Passive security posture scans for domains you operate",
	Long: `Vanguard inspects the externally observable security posture of a domain:
its SPF/DMARC/DKIM/CAA records, its TLS certificate, its HTTP security
headers, and the technologies its site exposes. All probes are passive
reads of public records and a single page fetch.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".vanguard")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("VANGUARD")
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		// init logger; probes log at debug level, so the default build
		// stays quiet unless --verbose is given
		var (
			l   *zap.Logger
			err error
		)
		if verbose {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = l.Sugar()
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vanguard.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}
