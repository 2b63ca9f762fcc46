// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

var (
	ConvertToPgx5DSN = convertToPgx5DSN
	NewSource        = newSource
)
