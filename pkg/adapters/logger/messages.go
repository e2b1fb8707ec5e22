package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Loading (info)
		"Opening %s as %s":                 "%s を %s として開きます",
		"Loaded %s: %d frames at %.3f fps": "%s を読み込みました: %d フレーム, %.3f fps",
		"Loaded %s (%d frames)":            "%s を読み込みました (%d フレーム)",
		"Sequence %s: %d frames (%d-%d)":   "連番 %s: %d フレーム (%d-%d)",
		"Detected sequence %s":             "連番 %s を検出しました",

		// Playback
		"Play at %v per frame":                 "1フレーム %v で再生",
		"Playback finished at %d/%d":           "再生終了 %d/%d",
		"Playback mode: %s":                    "再生モード: %s",
		"End of clip in %s: %s":                "%s で終端に到達: %s",
		"Joint play at %.3f fps (%v)":          "同期再生 %.3f fps (%v)",
		"Joint playback finished at A=%d B=%d": "同期再生終了 A=%d B=%d",
		"Compare mode enabled":                 "比較モードを有効にしました",
		"Compare mode disabled":                "比較モードを無効にしました",
		"Playing %s":                           "再生中 %s",
		"Presented %d frames (%s)":             "%d フレームを表示しました (%s)",

		// Project tree
		"Added %s to Source":       "%s をソースに追加しました",
		"Skipping missing file %s": "存在しないファイル %s をスキップします",
		"Dropped %d items into %s": "%d 件を %s に追加しました",

		// Sequence watching
		"Watching %s":                    "%s を監視中",
		"Sequence %s now has %d frames":  "連番 %s は %d フレームになりました",
		"Sequence watching disabled: %v": "連番の監視を無効にしました: %v",

		// Decoding
		"ffmpeg stream %s from frame %d":    "ffmpeg ストリーム %s をフレーム %d から開始",
		"Stream ended at %d of %d":          "ストリームが %d/%d で終了しました",
		"No frame at %d":                    "フレーム %d はありません",
		"Container probe incomplete for %s": "%s のコンテナ情報が不完全です",

		// Viewer status
		"Status: %s":                    "ステータス: %s",
		"Failed to load file":           "ファイルを読み込めませんでした",
		"No image sequence found":       "連番画像が見つかりません",
		"Folder has no media":           "フォルダにメディアがありません",
		"No timeline item":              "タイムラインに項目がありません",
		"Report saved to %s":            "レポートを %s に保存しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",

		// Warnings
		"Failed to load %s: %v":                              "%s の読み込みに失敗しました: %v",
		"Failed to decode first frame of %s: %v":             "%s の最初のフレームをデコードできません: %v",
		"Decode failed at %d: %v":                            "フレーム %d のデコードに失敗しました: %v",
		"Video decode of %s failed, trying still decode: %v": "%s の動画デコードに失敗したため静止画としてデコードします: %v",
		"Container probe failed for %s: %v":                  "%s のコンテナ解析に失敗しました: %v",
		"Cannot list %s: %v":                                 "%s を一覧できません: %v",
		"Cannot watch %s: %v":                                "%s を監視できません: %v",
		"Rescan of %s failed: %v":                            "%s の再スキャンに失敗しました: %v",
		"Failed to save frame %d: %v":                        "フレーム %d の保存に失敗しました: %v",
		"File watcher error: %v":                             "ファイル監視エラー: %v",

		// Errors
		"Callback panicked: %v": "コールバックでパニックが発生しました: %v",
	})
}
