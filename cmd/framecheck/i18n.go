// Package main provides localization for the framecheck CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration": "設定",
		"Logging":       "ログ",
		"Output":        "出力先",
		"Playback":      "再生",

		// Root command
		"Review video clips, stills and image sequences frame by frame": "動画・静止画・連番画像をフレーム単位で確認",

		// Commands
		"Print a media report for a path":          "メディアのレポートを表示",
		"Play media headlessly through the viewer": "ビューアでメディアをヘッドレス再生",
		"Play two media paths side by side":        "2つのメディアを並べて再生",
		"Show version information":                 "バージョン情報を表示",
		"framecheck version %s":                    "framecheck バージョン %s",

		// Global flags
		"Configuration file (YAML or TOML)":    "設定ファイル（YAMLまたはTOML）",
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":           "ログ形式（console, json）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Command flags
		"Write the report to a file":                                       "レポートをファイルに出力",
		"Report format (markdown, yaml)":                                   "レポート形式（markdown, yaml）",
		"Playback mode (loop, next, once)":                                 "再生モード（loop, next, once）",
		"Stop after presenting this many frames (0 = until playback ends)": "指定フレーム数を表示したら停止（0 = 再生終了まで）",
		"Directory to write presented frames to":                           "表示したフレームの出力先ディレクトリ",
		"Second path to compare against":                                   "比較対象の2つ目のパス",

		// Errors
		"A media argument is required":     "メディア引数が必要です",
		"Two media arguments are required": "2つのメディア引数が必要です",

		// Report
		"Media Report":   "メディアレポート",
		"Item":           "項目",
		"Value":          "値",
		"Path":           "パス",
		"Kind":           "種類",
		"Frames":         "フレーム数",
		"Frame Rate":     "フレームレート",
		"Duration":       "再生時間",
		"Resolution":     "解像度",
		"Frame Range":    "フレーム範囲",
		"Codec":          "コーデック",
		"Backend":        "バックエンド",
		"Title":          "タイトル",
		"Artist":         "アーティスト",
		"Audio Duration": "音声の長さ",
		"N/A":            "該当なし",
		"Generated by":   "生成:",
	})
}
