package scheduler

import "math"

// boltzmannConstant is k_B in J/K.
const boltzmannConstant = 1.380649e-23

// roomTemperatureKelvin is the standard reference noise temperature.
const roomTemperatureKelvin = 290.0

// ThermalNoiseAmplitude returns the per-sample noise amplitude sigma_n
// (volts, referenced to the receiver's load resistor) the engine reports
// alongside baseband, per spec.md §4.6: "the engine reports a per-sample
// noise amplitude sigma_n and the caller injects AWGN separately."
// sigma_n = sqrt(4 k_B T B R) is the standard thermal (Johnson-Nyquist)
// voltage-noise formula evaluated over the baseband bandwidth B and load
// resistance R, scaled by the baseband gain chain.
func ThermalNoiseAmplitude(basebandBW, loadOhms, basebandGainDB float64) float64 {
	if basebandBW <= 0 || loadOhms <= 0 {
		return 0
	}
	sigma := math.Sqrt(4 * boltzmannConstant * roomTemperatureKelvin * basebandBW * loadOhms)
	return sigma * math.Pow(10, basebandGainDB/20)
}
