//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前先把数据目录复制到本包：
//
//	cp -r data mobile/
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.textbox -o build/android/textbox.aar -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/quasilyte/gdata/v2"

	"github.com/gonewx/textbox/pkg/app"
	"github.com/gonewx/textbox/pkg/config"
	"github.com/gonewx/textbox/pkg/embedded"
	"github.com/gonewx/textbox/pkg/game"
)

func init() {
	embedded.Init(dataFS)

	data, err := embedded.ReadFile("data/textbox.yaml")
	if err != nil {
		log.Fatalf("[Mobile] failed to read built-in config: %v", err)
	}
	cfg, err := config.ParseTextboxConfig(data)
	if err != nil {
		log.Fatalf("[Mobile] invalid built-in config: %v", err)
	}
	logger, err := config.NewLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("[Mobile] failed to create logger: %v", err)
	}

	var store *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: "textbox"}); err == nil {
		store = m
	}

	textboxApp, err := app.NewApp(app.Config{
		Textbox: cfg,
		Scripts: func(id string) (*config.DialogueScript, error) {
			data, err := embedded.ReadFile("data/scripts/" + id + ".yaml")
			if err != nil {
				return nil, err
			}
			return config.ParseDialogueScript(data)
		},
		Script:   "intro",
		Settings: game.NewSettingsManager(store, logger),
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("[Mobile] failed to start: %v", err)
	}

	mobile.SetGame(textboxApp)
}

// Dummy 空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
