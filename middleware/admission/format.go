// utilitário pequeno para formatação rápida/consistente de valores numéricos em headers/logs.
//    Evita puxar fmt (que é mais “pesado” e genérico) só para formatação simples
// 	  Padroniza a formatação (strconv) e mantém o código consistente

package admission

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }
