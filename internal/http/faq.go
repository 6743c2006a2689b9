package http

import "net/http"

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQSection struct {
	Category  string    `json:"category"`
	Questions []FAQItem `json:"questions"`
}

// faqSections is static storefront content; there is no backend surface
// for it.
var faqSections = []FAQSection{
	{
		Category: "Pedidos",
		Questions: []FAQItem{
			{
				Question: "Como faço para acompanhar meu pedido?",
				Answer:   `Você pode acompanhar seu pedido na área "Meus Pedidos" da sua conta, com o status e as informações de rastreamento.`,
			},
			{
				Question: "Quanto tempo leva para receber meu pedido?",
				Answer:   "O prazo varia com a sua localização: 2-7 dias úteis para capitais e regiões metropolitanas, 5-15 dias úteis para demais localidades.",
			},
			{
				Question: "Como cancelar ou alterar um pedido?",
				Answer:   `O cancelamento ou alteração pode ser solicitado enquanto o pedido estiver "Em processamento", pela área "Meus Pedidos" ou pelo suporte.`,
			},
		},
	},
	{
		Category: "Pagamentos",
		Questions: []FAQItem{
			{
				Question: "Quais formas de pagamento são aceitas?",
				Answer:   "Cartões de crédito das principais bandeiras, boleto bancário e PIX.",
			},
			{
				Question: "É seguro comprar no site?",
				Answer:   "Sim. Usamos SSL para criptografar seus dados e gateways de pagamento confiáveis em todas as etapas da compra.",
			},
			{
				Question: "O pagamento via boleto é aprovado instantaneamente?",
				Answer:   "Não. O boleto pode levar até 3 dias úteis para compensar. Cartão de crédito e PIX têm aprovação imediata.",
			},
		},
	},
	{
		Category: "Trocas e Devoluções",
		Questions: []FAQItem{
			{
				Question: "Qual é a política de troca?",
				Answer:   "Trocas em até 30 dias após o recebimento, com o produto em perfeitas condições, na embalagem original e com a nota fiscal.",
			},
			{
				Question: "Quanto tempo leva para receber o reembolso?",
				Answer:   "Após recebermos e conferirmos o produto devolvido, o reembolso é processado em até 5 dias úteis.",
			},
		},
	},
	{
		Category: "Produtos",
		Questions: []FAQItem{
			{
				Question: "Como sei se o produto está disponível?",
				Answer:   "A disponibilidade em estoque aparece na página do produto, por variante.",
			},
			{
				Question: "Os produtos têm garantia?",
				Answer:   "Todos os produtos têm garantia legal de 90 dias; alguns trazem garantia estendida do fabricante.",
			},
		},
	},
	{
		Category: "Conta e Privacidade",
		Questions: []FAQItem{
			{
				Question: "Como criar ou excluir minha conta?",
				Answer:   `Crie uma conta em "Entrar" → "Criar conta". Para excluir, use as configurações da conta ou fale com o suporte.`,
			},
			{
				Question: "Como redefinir minha senha?",
				Answer:   `Clique em "Entrar" e depois em "Esqueci minha senha" para receber o link de redefinição por e-mail.`,
			},
		},
	},
}

func FAQHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"faqs": faqSections})
}
