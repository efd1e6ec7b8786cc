package content

import (
	"fmt"

	"golang.org/x/text/language"

	"rpkg/common"
)

// DefaultPhotos is number of activity photos report refers to.
const DefaultPhotos = 8

// PhotoName returns name of n-th activity photo (1 based) inside images
// directory.
func PhotoName(n int) string {
	return fmt.Sprintf("image_%d.jpg", n)
}

// PhotoPath returns package relative path of n-th activity photo.
func PhotoPath(n int) string {
	return "images/" + PhotoName(n)
}

var docxOnly = []common.ArtifactFormat{common.ArtifactFormatDocx}

var pagesOnly = []common.ArtifactFormat{common.ArtifactFormatHtml, common.ArtifactFormatMarkdown}

func centered(text string, size int, bold bool) Section {
	return Styled(text, Style{Size: size, Bold: bold, Align: AlignCenter})
}

func justified(text string) Section {
	return Styled(text, Style{Align: AlignJustify})
}

func quote(text string, size int) Section {
	return Styled(text, Style{Size: size, Italic: true, Align: AlignCenter})
}

func labeled(rows ...[]string) Section {
	s := Grid(rows...)
	s.Table.Labels = true
	s.Table.Style.Size = 11
	return s
}

func headed(rows ...[]string) Section {
	s := Grid(rows...)
	s.Table.Header = true
	return s
}

// Report returns built-in internship report content referring to given
// number of activity photos.
func Report(photos int) *Document {
	d := &Document{
		Meta: Meta{
			Title:        "Laporan Praktik Kerja Lapangan",
			Subtitle:     "CV Sinar Alam Motor - Bengkel Resmi Yamaha",
			Author:       "Kelvin",
			AuthorID:     "0071518396",
			Affiliation:  "SMK Negeri 1 Sumarorong",
			Organization: "CV Sinar Alam Motor",
			Year:         2025,
			Lang:         language.Indonesian,
			Footer:       "Dibuat dengan ❤️ untuk dokumentasi PKL",
		},
	}

	d.Blocks = append(d.Blocks, frontMatter()...)
	d.Blocks = append(d.Blocks, body()...)
	if photos > 0 {
		d.Blocks = append(d.Blocks, gallery(photos))
	}
	d.Blocks = append(d.Blocks, closing())
	d.Links = []Link{
		{ID: "download", Title: "Download", Icon: "📥", Summary: "Laporan DOCX", Artifact: common.ArtifactFormatDocx},
	}
	return d
}

func frontMatter() []Block {
	return []Block{
		{
			ID: "sampul", Title: "Sampul", Only: docxOnly,
			Sections: []Section{
				centered("LAPORAN", 16, true),
				centered("PRAKTIK KERJA LAPANGAN", 16, true),
				centered("DI", 14, true),
				Styled("CV SINAR ALAM MOTOR", Style{Size: 16, Bold: true, Align: AlignCenter, Color: "2E75B6"}),
				centered("Disusun Oleh:", 12, true),
				centered("KELVIN", 14, true),
				centered("NIS: 0071518396", 12, false),
				centered("Kelas XII - Teknik Sepeda Motor", 12, false),
				centered("UPTD SMK NEGERI 1 SUMARORONG", 13, true),
				centered("DINAS PENDIDIKAN DAN KEBUDAYAAN DAERAH", 11, false),
				centered("PROVINSI SULAWESI BARAT", 11, false),
				centered("TAHUN 2025", 12, true),
			},
		},
		{
			ID: "pengesahan", Title: "Lembar Pengesahan", Only: docxOnly, NewPage: true,
			Sections: []Section{
				centered("LEMBAR PENGESAHAN", 14, true),
				justified("Laporan Praktik Kerja Lapangan (PKL) ini disusun sebagai salah satu syarat untuk memenuhi kegiatan pembelajaran di SMK Negeri 1 Sumarorong. Laporan ini telah disetujui dan disahkan pada:"),
				Paragraph("Hari/Tanggal : ____________________"),
				Paragraph("Tempat : Sumarorong"),
				func() Section {
					s := Grid(
						[]string{
							"Mengetahui,\nPembimbing Industri\n\n\n\nMuhammad Sapei\nMekanik Senior",
							"Menyetujui,\nPembimbing Sekolah\n\n\n\nBenyamin Batau', S.Pd.\nGuru Pembimbing PKL",
						},
						[]string{
							"Pimpinan Perusahaan\n\n\n\nAlvian Howend\nDirektur CV Sinar Alam Motor",
							"Kepala Sekolah\n\n\n\nArnoldus, S.Pd., M.Pd.\nNIP: __________________",
						},
					)
					s.Table.Style = Style{Size: 11, Align: AlignCenter}
					return s
				}(),
			},
		},
		{
			ID: "biodata", Title: "Biodata Peserta", Only: docxOnly, NewPage: true,
			Sections: []Section{
				centered("BIODATA PESERTA PKL", 14, true),
				labeled(
					[]string{"Nama", "Kelvin"},
					[]string{"NIS", "0071518396"},
					[]string{"Tempat, Tanggal Lahir", "Malabo, 07 Oktober 2008"},
					[]string{"Jenis Kelamin", "Laki-laki"},
					[]string{"Alamat", "Sumarorong, Sulawesi Barat"},
					[]string{"No. Telepon", "081243468547"},
					[]string{"Program Keahlian", "Teknik Sepeda Motor"},
					[]string{"Nama Orang Tua", "Ayah: Demmaroa\nIbu: Suryani"},
					[]string{"Tempat PKL", "CV Sinar Alam Motor (Bengkel Resmi Yamaha)"},
					[]string{"Periode PKL", "2025-2026 (3 Bulan)"},
				),
			},
		},
		{
			ID: "motto", Title: "Motto", Only: docxOnly, NewPage: true,
			Sections: []Section{
				centered("MOTTO", 14, true),
				quote("\"Semua jatuh bangun mu hal yang biasa,", 12),
				quote("mimpi dan harapanmu biarkan waktu yang menjawabnya.", 12),
				quote("Bersedihlah secukupnya rayakan perasaanmu sebagai manusia\"", 12),
				quote("- Baskara Putra (Hindia)", 11),
			},
		},
		{
			ID: "pendahuluan", Title: "Pendahuluan", Only: docxOnly, NewPage: true,
			Chapter: &Chapter{Label: "BAB I", Title: "PENDAHULUAN"},
			Sections: []Section{
				Heading(1, "A. Latar Belakang"),
				justified("Praktik Kerja Lapangan (PKL) merupakan salah satu bentuk kegiatan pembelajaran yang diwajibkan bagi siswa SMK sebagai bagian integral dari proses pendidikan vokasi. Melalui PKL di CV Sinar Alam Motor, siswa dapat mengasah keterampilan teknis dalam perawatan dan perbaikan sepeda motor modern."),
				Heading(1, "B. Tujuan"),
				List(
					"Memberikan pengalaman kerja langsung sesuai bidang keahlian",
					"Melatih kedisiplinan dan tanggung jawab",
					"Menambah wawasan mengenai lingkungan kerja profesional",
					"Mengembangkan soft skills dan hard skills",
				),
			},
		},
	}
}

func body() []Block {
	home := Grid(
		[]string{"90", "720", "180+", "15+"},
		[]string{"Hari PKL", "Jam Kerja", "Motor", "Jenis Kerja"},
	)
	home.Table.Class = "stats"

	return []Block{
		{
			ID: "home", Title: "Beranda", Icon: "🏠", Summary: "Overview & statistik", Only: pagesOnly,
			Sections: []Section{
				Paragraph("Selamat datang di dokumentasi lengkap PKL di **CV Sinar Alam Motor**, bengkel resmi Yamaha!"),
				Heading(1, "Statistik PKL"),
				home,
			},
		},
		{
			ID: "profil", Title: "Profil", Icon: "🏢", Summary: "CV Sinar Alam Motor", NewPage: true,
			Chapter: &Chapter{Label: "BAB II", Title: "GAMBARAN UMUM INDUSTRI"},
			Sections: []Section{
				Heading(1, "A. Profil CV Sinar Alam Motor"),
				justified("CV Sinar Alam Motor merupakan bengkel resmi Yamaha yang bergerak di bidang jasa perawatan, perbaikan, dan penjualan suku cadang sepeda motor Yamaha di Sumarorong, Sulawesi Barat."),
				labeled(
					[]string{"Status", "Bengkel Resmi Yamaha"},
					[]string{"Lokasi", "Sumarorong, Sulawesi Barat"},
					[]string{"Direktur", "Alvian Howend"},
				),
				Heading(1, "B. Visi dan Misi"),
				justified("*Visi:* Menjadi pusat reparasi motor terpercaya dengan pelayanan berkualitas tinggi."),
				Heading(2, "Layanan"),
				List("Servis Berkala", "Perbaikan Mesin", "Sistem Kelistrikan", "CVT Service", "Spare Parts Original"),
			},
		},
		{
			ID: "swot", Title: "SWOT", Icon: "📊", Summary: "Analisis strategis",
			Sections: []Section{
				Heading(1, "C. Analisis SWOT"),
				headed(
					[]string{"Aspek", "Uraian"},
					[]string{"Strengths", "Status resmi Yamaha, mekanik bersertifikat, peralatan modern, lokasi strategis"},
					[]string{"Weaknesses", "Kapasitas terbatas, waiting time peak season, belum ada online booking"},
					[]string{"Opportunities", "Market growth, digitalisasi layanan, fleet management B2B"},
					[]string{"Threats", "Kompetisi non-resmi, fluktuasi harga parts, EV disruption"},
				),
			},
		},
		{
			ID: "kegiatan", Title: "Kegiatan", Icon: "💼", Summary: "Aktivitas PKL", NewPage: true,
			Chapter: &Chapter{Label: "BAB III", Title: "PELAKSANAAN PKL"},
			Sections: []Section{
				Heading(1, "A. Kegiatan yang Dilakukan"),
				List(
					"Mengganti oli mesin dan filter",
					"Mengganti kampas rem depan dan belakang",
					"Membersihkan CVT (Continuously Variable Transmission)",
					"Diagnostik dengan Yamaha Diagnostic Tool",
					"Perbaikan sistem kelistrikan",
					"Delivery spare parts ke bengkel lain",
				),
				Heading(2, "1. Mengganti Oli Mesin"),
				List("**Prosedur:** Drain → Check → Refill", "**Tools:** Kunci ring, wadah penampung", "**Learning:** Spesifikasi oli, proper torque"),
				Heading(2, "2. Mengganti Kampas Rem"),
				List("**Prosedur:** Disassembly → Clean → Install", "**Tools:** Kunci L, push-back tool", "**Learning:** Safety, proper bleeding"),
				Heading(2, "3. Membersihkan CVT"),
				List("**Prosedur:** Open → Inspect → Clean", "**Tools:** Kunci T, kompresor", "**Learning:** Component inspection"),
				Heading(2, "4. Diagnostik YDT"),
				List("**Prosedur:** Connect → Scan → Analyze", "**Tools:** Yamaha Diagnostic Tool", "**Learning:** Error codes, live data"),
			},
		},
		{
			ID: "kompetensi", Title: "Kompetensi", Icon: "🛠️", Summary: "Skills acquired",
			Sections: []Section{
				Heading(1, "B. Kompetensi yang Diperoleh"),
				Paragraph("**Hard Skills:** Engine maintenance, CVT service, electrical troubleshooting, diagnostic tools"),
				headed(
					[]string{"Kompetensi", "Penguasaan"},
					[]string{"Engine Maintenance", "90%"},
					[]string{"CVT Service", "85%"},
					[]string{"Electrical System", "80%"},
					[]string{"Diagnostic Tools", "75%"},
					[]string{"Brake System", "90%"},
				),
				Paragraph("**Soft Skills:** Komunikasi, teamwork, problem solving, adaptasi, tanggung jawab"),
			},
		},
	}
}

func gallery(photos int) Block {
	images := make([]Image, 0, photos)
	for n := 1; n <= photos; n++ {
		images = append(images, Image{Path: PhotoPath(n), Alt: fmt.Sprintf("Kegiatan %d", n)})
	}
	return Block{
		ID: "dokumentasi", Title: "Dokumentasi", Icon: "📸", Summary: "Galeri foto", NewPage: true,
		Chapter: &Chapter{Label: "LAMPIRAN", Title: "DOKUMENTASI KEGIATAN"},
		Sections: []Section{
			Gallery(images...),
			Styled(fmt.Sprintf("*%d foto dokumentasi tersedia di folder images/*", photos), Style{Align: AlignCenter}),
		},
	}
}

func closing() Block {
	return Block{
		ID: "kesimpulan", Title: "Kesimpulan", Icon: "📝", Summary: "Refleksi", NewPage: true,
		Chapter: &Chapter{Label: "BAB IV", Title: "PENUTUP"},
		Sections: []Section{
			Heading(1, "A. Kesimpulan"),
			justified("PKL di CV Sinar Alam Motor memberikan pengalaman berharga dalam dunia kerja profesional. Penulis memperoleh kompetensi teknis dan non-teknis yang akan sangat berguna untuk masa depan."),
			Heading(2, "Key Takeaways"),
			List("Technical excellence dalam servis motor", "Professional development & etos kerja", "Soft skills enhancement", "Career readiness"),
			Heading(1, "B. Saran"),
			List(
				"**Untuk Siswa:** Manfaatkan PKL sebaik-baiknya untuk belajar",
				"**Untuk Sekolah:** Tingkatkan kerja sama dengan industri",
				"**Untuk Industri:** Terus berikan bimbingan optimal",
			),
		},
	}
}
