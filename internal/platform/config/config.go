package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Cfg 是一个全局变量，用于存储所有应用程序的配置
var Cfg *Config

// Config 结构体定义了应用程序的所有配置项
// 它与 config.yaml 文件的结构完全对应
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Battle   BattleConfig   `mapstructure:"battle"`
}

// ServerConfig 定义了服务器相关的配置
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"`
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置
type DatabaseConfig struct {
	// Driver 可以是 "sqlite" 或 "postgres"
	Driver string      `mapstructure:"driver"`
	DSN    string      `mapstructure:"dsn"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig 定义了Redis的配置
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BattleConfig 定义了对战引擎的策略常量
// 这些值是策略配置而非结构不变量，代码只依赖它们的单调性：
// 价格越高分数越高，难度惩罚越低分数越高
type BattleConfig struct {
	// 三档难度对应的分数惩罚值
	ModifierLow  float64 `mapstructure:"modifierLow"`
	ModifierMed  float64 `mapstructure:"modifierMed"`
	ModifierHigh float64 `mapstructure:"modifierHigh"`

	// SquashScale 控制分差到获胜概率的压缩速度，越小则强者优势越明显
	SquashScale float64 `mapstructure:"squashScale"`

	// MirrorRetryLimit 是Redis镜像写入失败后的最大重试次数
	MirrorRetryLimit int `mapstructure:"mirrorRetryLimit"`
}

// LoadConfig 函数负责查找、加载和解析配置文件
// 它会在指定的路径中查找名为 config.yaml 的文件
func LoadConfig() (*Config, error) {
	v := viper.New()

	// 1. 设置配置文件名和类型
	v.SetConfigName("config") // 文件名 (不带扩展名)
	v.SetConfigType("yaml")   // 文件类型

	// 2. 添加配置文件搜索路径
	v.AddConfigPath("./config") // `config/config.yaml`
	v.AddConfigPath(".")        // `./config.yaml` (如果在根目录)

	// 3. 设置环境变量支持
	// 允许通过环境变量覆盖配置，例如 SERVER_ADDRESS=:8888
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. 为所有配置项提供默认值，保证没有配置文件时也能启动
	setDefaults(v)

	// 5. 读取配置文件（找不到文件不是致命错误，使用默认值继续）
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// 6. 将配置反序列化到结构体中
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// 7. 将加载的配置赋值给全局变量
	Cfg = &cfg

	return Cfg, nil
}

// setDefaults 集中声明所有配置项的默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "meals.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	// 对战分数公式的默认常量：LOW惩罚最大，HIGH惩罚最小
	v.SetDefault("battle.modifierLow", 3.0)
	v.SetDefault("battle.modifierMed", 2.0)
	v.SetDefault("battle.modifierHigh", 1.0)
	v.SetDefault("battle.squashScale", 50.0)
	v.SetDefault("battle.mirrorRetryLimit", 5)
}
