package files

import (
	"github.com/compose-network/fileaccess/configs"
	"github.com/spf13/viper"
)

func init() {
	defaults := configs.MustDefaultConfig().Files

	declareStringFlag("format", "files.format", string(defaults.Format), "File format: auto, json, yaml, text, csv or tsv")
	declareStringFlag("perm", "files.perm", defaults.Perm, "Octal permission for newly created files")
	declareStringFlag("comma", "files.tabular.comma", defaults.Tabular.Comma, `Field delimiter for csv files ("\t" for tabs)`)
	declareBoolFlag("crlf", "files.tabular.crlf", defaults.Tabular.CRLF, "Terminate tabular rows with CRLF")
}

func declareStringFlag(name, key, defaultValue, description string) {
	CMD.PersistentFlags().String(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}

func declareBoolFlag(name, key string, defaultValue bool, description string) {
	CMD.PersistentFlags().Bool(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.PersistentFlags().Lookup(name)); err != nil {
		panic(err)
	}
}
