// Package config loads ui-locator settings with viper.
//
// Precedence, lowest first: built-in defaults, config.yaml (./ or
// $HOME/.ui-locator, or an explicit --config path), then UI_LOCATOR_*
// environment variables. A .env file can seed the environment before the
// manager is created.
package config
