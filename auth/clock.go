package auth

import "time"

// timeNow is swapped in tests to freeze login timestamps.
var timeNow = time.Now
