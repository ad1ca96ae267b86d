package components

import "github.com/atotto/clipboard"

// copyText is swapped out in tests; headless machines have no clipboard.
var copyText = clipboard.WriteAll
