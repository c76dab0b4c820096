package common

import "time"

var StartTime = time.Now().Unix() // unit: second
var Version = "v1.2.0"
