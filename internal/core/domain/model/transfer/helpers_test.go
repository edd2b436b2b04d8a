package transfer_test

import "time"

var fixedTime = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
