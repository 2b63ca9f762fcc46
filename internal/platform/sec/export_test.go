// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// HashPasswordWithCost exposes the cost-parameterised hasher to external tests.
var HashPasswordWithCost = hashPasswordWithCost
