package dto

import "time"

// Response shapes for the capability dashboard. JSON keys keep the
// Indonesian field names the frontend consumes.

type OverviewMetricDTO struct {
	Total      int `json:"total"`
	Target     int `json:"target"`
	Percentage int `json:"percentage"`
}

type OverviewDTO struct {
	LearningHours  OverviewMetricDTO `json:"learningHours"`
	Certifications OverviewMetricDTO `json:"certifications"`
}

type MonthlyTrendDTO struct {
	Bulan               string `json:"bulan"`
	LearningHoursAktual int    `json:"learningHoursAktual"`
	LearningHoursTarget int    `json:"learningHoursTarget"`
	SertifikasiAktual   int    `json:"sertifikasiAktual"`
	SertifikasiTarget   int    `json:"sertifikasiTarget"`
}

type TopPerformerDTO struct {
	Nama            string `json:"nama"`
	Department      string `json:"department"`
	Jabatan         string `json:"jabatan"`
	TotalLH         int    `json:"totalLH"`
	TotalCert       int    `json:"totalCert"`
	TotalPencapaian int    `json:"totalPencapaian"`
}

type TypeDistributionDTO struct {
	Department    string `json:"department"`
	LearningHours int    `json:"learningHours"`
	Sertifikasi   int    `json:"sertifikasi"`
}

type ExpiringCertificationDTO struct {
	Topic         string    `json:"topic"`
	Nama          string    `json:"nama"`
	Department    string    `json:"department"`
	Jabatan       string    `json:"jabatan"`
	ValidUntil    time.Time `json:"validUntil"`
	HariMenjelang int       `json:"hariMenjelang"`
	Status        string    `json:"status"`
}

type ProgramEffectivenessDTO struct {
	Topic     string  `json:"topic"`
	Organizer string  `json:"organizer"`
	Peserta   int     `json:"peserta"`
	RataJam   float64 `json:"rataJam"`
	Durasi    int     `json:"durasi"`
}

type SeasonalPointDTO struct {
	Bulan  string `json:"bulan"`
	Jumlah int    `json:"jumlah"`
}

type DepartmentPerformanceDTO struct {
	Department   string `json:"department"`
	TotalLH      int    `json:"totalLH"`
	TotalCert    int    `json:"totalCert"`
	PegawaiAktif int    `json:"pegawaiAktif"`
	PersenLH     int    `json:"persenLH"`
	PersenCert   int    `json:"persenCert"`
}

type AchievementVelocityDTO struct {
	Nama              string  `json:"nama"`
	Department        string  `json:"department"`
	TotalPencapaian   int     `json:"totalPencapaian"`
	PencapaianPerHari float64 `json:"pencapaianPerHari"`
	LHPerBulan        float64 `json:"lhPerBulan"`
}

type OrganizerEffectivenessDTO struct {
	Organizer    string  `json:"organizer"`
	TotalProgram int     `json:"totalProgram"`
	VariasiTopik int     `json:"variasiTopik"`
	PesertaUnik  int     `json:"pesertaUnik"`
	RataNilai    float64 `json:"rataNilai"`
}

type DashboardDTO struct {
	Overview               OverviewDTO                 `json:"overview"`
	TrendBulanan           []MonthlyTrendDTO           `json:"trendBulanan"`
	TopPerformers          []TopPerformerDTO           `json:"topPerformers"`
	DistribusiJenis        []TypeDistributionDTO       `json:"distribusiJenis"`
	SertifikasiKadaluarsa  []ExpiringCertificationDTO  `json:"sertifikasiKadaluarsa"`
	EfektivitasProgram     []ProgramEffectivenessDTO   `json:"efektivitasProgram"`
	PolaMusimanLH          []SeasonalPointDTO          `json:"polaMusimanLH"`
	PolaMusimanCert        []SeasonalPointDTO          `json:"polaMusimanCert"`
	DepartmentPerformance  []DepartmentPerformanceDTO  `json:"departmentPerformance"`
	AchievementVelocity    []AchievementVelocityDTO    `json:"achievementVelocity"`
	OrganizerEffectiveness []OrganizerEffectivenessDTO `json:"organizerEffectiveness"`
}

// Legacy summary dashboard kept for the original frontend page.

type LegacySummaryDTO struct {
	TotalLearningHours        int `json:"totalLearningHours"`
	TotalLearningHoursTarget  int `json:"totalLearningHoursTarget"`
	LearningHoursProgress     int `json:"learningHoursProgress"`
	TotalCertifications       int `json:"totalCertifications"`
	TotalCertificationsTarget int `json:"totalCertificationsTarget"`
	CertificationsProgress    int `json:"certificationsProgress"`
	TotalEmployees            int `json:"totalEmployees"`
	TotalDepartments          int `json:"totalDepartments"`
}

type LegacyDepartmentRowDTO struct {
	DepartmentID           string `json:"departmentId"`
	DepartmentName         string `json:"departmentName"`
	LearningHours          int    `json:"learningHours"`
	LearningHoursTarget    int    `json:"learningHoursTarget"`
	Certifications         int    `json:"certifications"`
	CertificationsTarget   int    `json:"certificationsTarget"`
	EmployeeCount          int    `json:"employeeCount"`
	LearningHoursProgress  int    `json:"learningHoursProgress"`
	CertificationsProgress int    `json:"certificationsProgress"`
}

type LegacyEmployeeRowDTO struct {
	EmployeeID     string `json:"employeeId"`
	EmployeeName   string `json:"employeeName"`
	Department     string `json:"department"`
	LearningHours  int    `json:"learningHours"`
	Certifications int    `json:"certifications"`
}

type LegacyDashboardDTO struct {
	Year           int                      `json:"year"`
	Summary        LegacySummaryDTO         `json:"summary"`
	DepartmentData []LegacyDepartmentRowDTO `json:"departmentData"`
	EmployeeData   []LegacyEmployeeRowDTO   `json:"employeeData"`
}
