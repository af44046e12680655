//go:build windows

package finder

import "golang.org/x/sys/windows"

// logicalDrives lists mounted drive roots such as C:\ from the drive bitmask
func logicalDrives() []string {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil
	}

	var drives []string
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) != 0 {
			drives = append(drives, string(rune('A'+i))+`:\`)
		}
	}
	return drives
}
