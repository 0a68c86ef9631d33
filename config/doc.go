// Package config 提供 kefuflow 的配置管理功能。
//
// 支持从默认值、YAML 文件与环境变量加载配置，
// 并提供基于轮询的配置文件变更监听。
package config
