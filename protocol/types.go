package protocol

import "fmt"

// DeviceIdentity is the decoded result of the GET_ID command.
type DeviceIdentity struct {
	// ProductID is the 32-bit product identifier
	ProductID uint32

	// ProjectID is the project identifier byte
	ProjectID byte
}

func (d DeviceIdentity) String() string {
	return fmt.Sprintf("PID 0x%08X, project 0x%02X", d.ProductID, d.ProjectID)
}

// BootloaderVersion is the decoded result of the GET_VERSION command.
type BootloaderVersion struct {
	// Version is the bootloader version byte, major nibble then minor
	// nibble (0x26 means 2.6)
	Version byte

	// OptionBytes are the two option bytes following the version
	OptionBytes [2]byte
}

func (v BootloaderVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Version>>4, v.Version&0x0F)
}

// Capabilities is the decoded result of the GET command.
type Capabilities struct {
	// Version is the bootloader version byte, same encoding as
	// BootloaderVersion.Version
	Version byte

	// Commands lists the opcodes the bootloader supports
	Commands []byte
}
