package types

import "testing"

func TestSensorReadings(t *testing.T) {
	r := SensorReadings{WaterC: 19.8, AmbientC: 25, HumidityPct: 50}
	if r.Data() != [3]float32{19.8, 25, 50} {
		t.Fatalf("Data = %v", r.Data())
	}
	if !r.Plausible() {
		t.Fatal("normal readings reported implausible")
	}
	r.HumidityPct = 100.5
	if r.Plausible() {
		t.Fatal("humidity over 100 accepted")
	}
	r = SensorReadings{WaterC: -85, AmbientC: 25, HumidityPct: 50}
	if r.Plausible() {
		t.Fatal("water below the probe range accepted")
	}
}
