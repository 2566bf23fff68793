// internal/registers/jvl.go
package registers

import "github.com/tamzrod/motorctl/internal/codec"

// Device calibration constants. Empirical, keep as published.
const (
	velocityCounts     = 2.77056     // counts per RPM
	accelerationCounts = 3.598133e-3 // counts per RPM/s
	torqueFull         = 300.0       // % peak at torqueCounts
	torqueCounts       = 1023.0
	controlVoltsLSB    = 0.01
	temperatureLSB     = 0.1221
	busVoltsLSB        = 0.888
)

// Names of registers driven by dedicated commands.
const (
	ModeRegister    = "MODE_REG"
	CommandRegister = "COMMAND_REG"
)

// Special command codes written to CommandRegister.
const (
	CommandReset       = 1
	CommandSaveInFlash = 2
)

// Modes is the MODE_REG enumeration.
var Modes = Enum(
	"PASSIVE", "VELOCITY", "POSITION", "GEAR", "TORQUE",
	"ANALOG_VELOCITY", "ANALOG_VELOCITY_GEAR", "MANUAL_CURRENT",
	"STEP_RESPONSE_TEST", "INTERNAL_TEST_9", "BRAKE", "STOP",
	"TORQUE_HOMING", "SENSOR1_HOMING", "SENSOR2_HOMING",
	"SAFE_MODE", "ANALOG_VELOCITY_DEADBAND",
	"VELOCITY_LIMITED_ANALOG_TORQUE", "ANALOG_GEAR", "COIL",
	"ANALOG_BI_POSITION", "ANALOG_TO_POSITION",
	"INTERNAL_TEST_22", "INTERNAL_TEST_23", "GEAR_FOLLOW",
	"IHOME", "IIHOME",
)

// ErrStatBits names the ERR_STAT bits. Bit 29 is unassigned.
var ErrStatBits = Bits(map[uint8]string{
	0: "I2T_ERR", 1: "FLW_ERR", 2: "FNC_ERR", 3: "UIT_ERR", 4: "IN_POS",
	5: "ACC_FLAG", 6: "DEC_FLAG", 7: "PLIM_ERR", 8: "DEGC_ERR", 9: "UV_ERR",
	10: "UV_DETECT", 11: "OV_ERR", 12: "IPEAK_ERR", 13: "SPEED_ERR",
	14: "DIS_P_LIM", 15: "INDEX_ERR", 16: "OLDFILTERR", 17: "U24V_ERR",
	18: "SHORT_CIRC", 19: "VAC_ON", 20: "PWM_LOCKED", 21: "COMM_ERR",
	22: "CURLOOP_ERR", 23: "SLAVE_ERR", 24: "ANY_ERR", 25: "INIT_ERR",
	26: "FLASH_ERR", 27: "STO_ALARM_ERR", 28: "FPGA_ERROR",
	30: "OUT1_STATUS", 31: "OUT2_STATUS",
})

// CntrlBits names the CNTRL_BITS bits.
var CntrlBits = Bits(map[uint8]string{
	0: "USRINTF0", 1: "USRINTF1", 2: "PULSEDIR", 3: "INPSIGN", 4: "HICLK",
	5: "HALL_INT", 6: "RECORDBIT", 7: "REWINDBIT", 8: "RECINNERBIT",
	9: "AUTO_RESYNC", 10: "MAN_RESYNC", 11: "INDEX_HOME", 12: "REL_RESYNC",
	13: "HALL_C", 14: "HALL_B", 15: "HALL_A",
})

var (
	s32      = codec.SignedInt(32)
	u32      = codec.UnsignedInt(32)
	bits32   = codec.Bitfield(32)
	velocity = codec.ScaledSigned(32, 1, velocityCounts)
)

func rw(name string, num uint16, c codec.Strategy, desc string) Descriptor {
	return Descriptor{Name: name, Number: num, Access: ReadWrite, Codec: c, Description: desc}
}

func ro(name string, num uint16, c codec.Strategy, desc string) Descriptor {
	return Descriptor{Name: name, Number: num, Access: ReadOnly, Codec: c, Description: desc}
}

func mapped(d Descriptor, m ValueMap) Descriptor {
	d.Meaning = m
	return d
}

// Definitions is the JVL MAC motor register table.
func Definitions() []Descriptor {
	return []Descriptor{
		ro("PROG_VERSION", 1, s32, "Firmware version info"),
		mapped(rw(ModeRegister, 2, s32, "Operating Mode"), Modes),
		rw("P_SOLL", 3, s32, "Target Position (counts)"),
		rw("P_NEW", 4, s32, "New Position for atomic update"),
		rw("V_SOLL", 5, velocity, "Target Velocity (RPM)"),
		rw("A_SOLL", 6, codec.ScaledSigned(32, 1, accelerationCounts), "Target Acceleration (RPM/s)"),
		rw("T_SOLL", 7, codec.ScaledSigned(32, torqueFull, torqueCounts), "Target Torque (% peak)"),
		rw("P_FNC_LO", 8, s32, "Internal Function Pos (Low Word)"),
		rw("INDEX_OFFSET", 9, s32, "Internal Function Pos (High Word) / Index Offset"),
		ro("P_IST", 10, s32, "Actual Position (counts)"),
		ro("V_IST_16", 11, velocity, "Actual Velocity (RPM, 16 sample avg)"),
		ro("V_IST", 12, velocity, "Actual Velocity (RPM, instant)"),
		rw("KVOUT", 13, u32, "Load Factor / Velocity Gain"),
		rw("GEARF1", 14, u32, "Gear Factor Numerator"),
		rw("GEARF2", 15, u32, "Gear Factor Denominator"),
		ro("I2T", 16, u32, "Motor thermal load integral"),
		rw("I2TLIM", 17, u32, "Motor thermal load limit"),
		ro("UIT", 18, u32, "Power dump thermal load integral"),
		rw("UITLIM", 19, u32, "Power dump thermal load limit"),
		ro("FLWERR", 20, s32, "Following Error (counts)"),
		ro("U_24V", 21, codec.ScaledUnsigned(32, controlVoltsLSB, 1), "Control Voltage (V, approx)"),
		rw("FLWERRMAX", 22, u32, "Max Following Error Limit (counts)"),
		rw("UV_HANDLE", 23, u32, "Undervoltage Handling Config"),
		ro("FNCERR", 24, s32, "Function Error"),
		ro("P_IST_TURNTAB", 25, s32, "Actual Turntable Position"),
		rw("FNCERRMAX", 26, u32, "Max Function Error Limit"),
		ro("TURNTAB_COUNT", 27, s32, "Turntable Wrap Count"),
		rw("MIN_P_IST", 28, s32, "Min Software Position Limit"),
		ro("DEGC", 29, codec.ScaledSigned(32, temperatureLSB, 1), "Internal Temperature (DegC, approx)"),
		rw("MAX_P_IST", 30, s32, "Max Software Position Limit"),
		rw("DEGCMAX", 31, u32, "Max Temperature Limit"),
		rw("ACC_EMERG", 32, u32, "Emergency Acceleration"),
		rw("INPOSWIN", 33, u32, "In Position Window Size (counts)"),
		rw("INPOSCNT", 34, u32, "In Position Sample Count"),
		mapped(rw("ERR_STAT", 35, bits32, "Error/Status Bits"), ErrStatBits),
		mapped(rw("CNTRL_BITS", 36, bits32, "Control Bits"), CntrlBits),
		rw("START_MODE", 37, u32, "Start Mode Config"),
		rw("P_HOME", 38, s32, "Homing Position Offset"),
		rw("HW_SETUP", 39, u32, "Hardware Setup Bits"),
		rw("V_HOME", 40, s32, "Homing Velocity"),
		rw("T_HOME", 41, s32, "Homing Torque"),
		rw("HOME_MODE", 42, u32, "Homing Mode Type"),
		rw(CommandRegister, 211, u32, "Special Command Register"),
		ro("U_BUS", 198, codec.ScaledUnsigned(32, busVoltsLSB, 1), "DC Bus Voltage (V)"),
	}
}

var jvl = MustNewCatalog(Definitions())

// Default returns the process-wide JVL catalog, built at init.
func Default() *Catalog { return jvl }
