//go:build without_sensors

package config

const withoutSensors = true
